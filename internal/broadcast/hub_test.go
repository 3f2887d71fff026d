package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeReceivesPublishedEvents(t *testing.T) {
	hub := NewHub()

	var got []Event
	hub.Subscribe(func(event Event) {
		got = append(got, event)
	})

	hub.Publish(Event{Type: EventBoard, Message: "column created"})
	hub.Publish(Event{Type: EventDirectory, Message: "user updated"})

	assert.Equal(t, []Event{
		{Type: EventBoard, Message: "column created"},
		{Type: EventDirectory, Message: "user updated"},
	}, got)
}

func TestPublishWithoutClientsIsSafe(t *testing.T) {
	hub := NewHub()

	assert.Zero(t, hub.ClientCount())
	assert.NotPanics(t, func() {
		hub.Publish(Event{Type: EventSession, Message: "logged out"})
	})
}
