package services

import (
	"sync"
	"time"

	"inkstudio-backend/models"

	"github.com/google/uuid"
)

// Session is the resolved caller. It is either a ClientSession or an AdminSession;
// access control switches on the concrete type instead of reading IsAdmin around the
// code base.
type Session interface {
	Account() *models.User
	Role() string
}

type ClientSession struct {
	Profile *models.User
}

func (s ClientSession) Account() *models.User { return s.Profile }
func (s ClientSession) Role() string { return "client" }

type AdminSession struct {
	Profile *models.User
}

func (s AdminSession) Account() *models.User { return s.Profile }
func (s AdminSession) Role() string { return "admin" }

func NewSession(user *models.User) Session {
	if user.IsAdmin {
		return AdminSession{Profile: user}
	}
	return ClientSession{Profile: user}
}

const (
	EventProfileUpdated  = "profile_updated"
	EventLoyaltyCredited = "loyalty_credited"
	EventLoggedOut       = "logged_out"
)

// AccountEvent is broadcast to the subscribers of one account.
type AccountEvent struct {
	Type    string       `json:"type"`
	UserID  uuid.UUID    `json:"userId"`
	Account *models.User `json:"account,omitempty"`
	At      time.Time    `json:"at"`
}

const subscriberBuffer = 8

// SessionHub fans account changes out to subscribers (open websocket sessions). It is
// built once in main and closed on shutdown.
type SessionHub struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[int]chan AccountEvent
	nextID int
	closed bool
}

func NewSessionHub() *SessionHub {
	return &SessionHub{subs: make(map[uuid.UUID]map[int]chan AccountEvent)}
}

// Subscribe returns a channel of events for userID and a cancel func that must be
// called once the subscriber goes away.
func (h *SessionHub) Subscribe(userID uuid.UUID) (<-chan AccountEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan AccountEvent, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan AccountEvent)
	}
	h.subs[userID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if userSubs, ok := h.subs[userID]; ok {
				if sub, ok := userSubs[id]; ok {
					delete(userSubs, id)
					close(sub)
				}
				if len(userSubs) == 0 {
					delete(h.subs, userID)
				}
			}
		})
	}
}

// Publish delivers event without blocking; a subscriber whose buffer is full misses it.
func (h *SessionHub) Publish(event AccountEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs[event.UserID] {
		select {
		case ch <- event:
		default:
		}
	}
}

func (h *SessionHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for userID, userSubs := range h.subs {
		for _, ch := range userSubs {
			close(ch)
		}
		delete(h.subs, userID)
	}
}
