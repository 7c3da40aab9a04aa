package services

import (
	"testing"
	"time"

	"inkstudio-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	client := NewSession(&models.User{Email: "ana@example.com"})
	assert.IsType(t, ClientSession{}, client)
	assert.Equal(t, "client", client.Role())

	admin := NewSession(&models.User{Email: "studio@example.com", IsAdmin: true})
	assert.IsType(t, AdminSession{}, admin)
	assert.Equal(t, "admin", admin.Role())
	assert.Equal(t, "studio@example.com", admin.Account().Email)
}

func TestSessionHub_RoutesByAccount(t *testing.T) {
	hub := NewSessionHub()
	ana, bia := uuid.New(), uuid.New()

	anaEvents, cancelAna := hub.Subscribe(ana)
	defer cancelAna()
	biaEvents, cancelBia := hub.Subscribe(bia)
	defer cancelBia()

	hub.Publish(AccountEvent{Type: EventProfileUpdated, UserID: ana, At: fixedNow})

	select {
	case ev := <-anaEvents:
		assert.Equal(t, ana, ev.UserID)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
	select {
	case ev := <-biaEvents:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestSessionHub_FullBufferDoesNotBlock(t *testing.T) {
	hub := NewSessionHub()
	id := uuid.New()
	events, cancel := hub.Subscribe(id)
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(AccountEvent{Type: EventLoyaltyCredited, UserID: id})
	}
	assert.Len(t, events, subscriberBuffer)
}

func TestSessionHub_CancelAndClose(t *testing.T) {
	hub := NewSessionHub()
	id := uuid.New()

	events, cancel := hub.Subscribe(id)
	cancel()
	cancel()
	_, open := <-events
	assert.False(t, open)

	other, _ := hub.Subscribe(id)
	hub.Close()
	_, open = <-other
	assert.False(t, open)

	late, _ := hub.Subscribe(id)
	_, open = <-late
	assert.False(t, open)

	require.NotPanics(t, func() {
		hub.Publish(AccountEvent{UserID: id})
		hub.Close()
	})
}
