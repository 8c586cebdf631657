package websocket

import "github.com/planner-dashboard/backend/internal/logger"

// EventBroadcaster publishes entity changes to the hub.
type EventBroadcaster struct {
	hub *Hub
	log *logger.Logger
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub, log *logger.Logger) *EventBroadcaster {
	if log == nil {
		log = logger.Nop()
	}
	return &EventBroadcaster{hub: hub, log: log}
}

// EntityCreated announces a newly created item.
func (b *EventBroadcaster) EntityCreated(resource, id string, item any) {
	b.broadcast(TypeEntityCreated, EntityPayload{Resource: resource, ID: id, Item: item})
}

// EntityUpdated announces a changed item.
func (b *EventBroadcaster) EntityUpdated(resource, id string, item any) {
	b.broadcast(TypeEntityUpdated, EntityPayload{Resource: resource, ID: id, Item: item})
}

// EntityDeleted announces a removed item.
func (b *EventBroadcaster) EntityDeleted(resource, id string) {
	b.broadcast(TypeEntityDeleted, EntityPayload{Resource: resource, ID: id})
}

func (b *EventBroadcaster) broadcast(t MessageType, payload any) {
	if b == nil || b.hub == nil {
		return
	}

	msg, err := NewMessage(t, payload)
	if err != nil {
		b.log.Error("Encoding WebSocket payload", "type", t, "error", err)
		return
	}
	data, err := msg.JSON()
	if err != nil {
		b.log.Error("Encoding WebSocket message", "type", t, "error", err)
		return
	}

	b.hub.Broadcast(data)
}
