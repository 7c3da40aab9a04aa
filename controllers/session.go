package controllers

import (
	"net/http"
	"time"

	"inkstudio-backend/services"
	"inkstudio-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// SessionController streams account changes of the signed-in user over a websocket.
type SessionController struct {
	auth     *services.AuthService
	hub      *services.SessionHub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewSessionController(auth *services.AuthService, hub *services.SessionHub, logger *zap.Logger, allowedOrigins []string) *SessionController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &SessionController{
		auth:   auth,
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// Stream authenticates from the header, cookie or ?token= (browsers cannot set
// headers on websocket requests) and then forwards hub events as JSON.
func (sc *SessionController) Stream(c *gin.Context) {
	raw := utils.ExtractToken(c)
	if raw == "" {
		raw = c.Query("token")
	}
	session, _, err := sc.auth.Authenticate(c.Request.Context(), raw)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	conn, err := sc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		sc.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	account := session.Account()
	events, cancel := sc.hub.Subscribe(account.ID)
	defer cancel()

	// Reader: handles pongs and notices the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(services.AccountEvent{
		Type:    services.EventProfileUpdated,
		UserID:  account.ID,
		Account: account,
		At:      time.Now(),
	}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			if event.Type == services.EventLoggedOut {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "logged out"))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
