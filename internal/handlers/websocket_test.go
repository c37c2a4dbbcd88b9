package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHubSessions(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()

	phone := &connection{userID: alice}
	laptop := &connection{userID: alice}
	hub.register(phone)
	hub.register(laptop)

	require.Equal(t, 2, hub.Sessions(alice))
	require.Zero(t, hub.Sessions(bob))

	// No sessions, nothing to write to.
	hub.Send(bob, WSEvent{Type: EventHabitUpdated})

	hub.unregister(phone)
	require.Equal(t, 1, hub.Sessions(alice))
	hub.unregister(laptop)
	require.Zero(t, hub.Sessions(alice))

	hub.unregister(laptop)
	require.Zero(t, hub.Sessions(alice))
}
