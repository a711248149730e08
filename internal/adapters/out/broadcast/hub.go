// Package broadcast provides the in-process fan-out of order events to
// connected watchers. Publishing is fire and forget with at-most-once
// delivery: a slow subscriber loses events rather than slowing the state
// change that produced them.
package broadcast

import (
	"log/slog"
	"sync"
	"time"

	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/order"
)

// EventType identifies what an event announces.
type EventType string

const (
	// EventStatusChanged announces an order's state after an accepted change.
	EventStatusChanged EventType = "status_changed"

	// EventLocationUpdated announces a courier position for an order in transit.
	EventLocationUpdated EventType = "location_updated"
)

// HistoryEntry is one status history line of an order snapshot.
type HistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// OrderSnapshot is the updated order state carried by a status_changed event,
// so subscribers never need to refetch the order after an event.
type OrderSnapshot struct {
	ID          string         `json:"id"`
	PharmacyID  string         `json:"pharmacyId"`
	CustomerID  string         `json:"customerId"`
	Status      string         `json:"status"`
	AgentID     string         `json:"agentId,omitempty"`
	Total       float64        `json:"total"`
	TrackingLat *float64       `json:"trackingLat,omitempty"`
	TrackingLng *float64       `json:"trackingLng,omitempty"`
	History     []HistoryEntry `json:"history"`
}

// Event is the payload delivered to watchers of an order.
type Event struct {
	Type      EventType      `json:"type"`
	OrderID   string         `json:"orderId"`
	Order     *OrderSnapshot `json:"order,omitempty"`
	Lat       *float64       `json:"lat,omitempty"`
	Lng       *float64       `json:"lng,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

const subscriberBuffer = 16

// Hub fans order events out to per-order subscribers. It implements the
// event publisher port; handlers publish after commit and never block on
// delivery.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[int]chan Event
	nextID      int
	logger      *slog.Logger
}

// NewHub creates an event hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]map[int]chan Event),
		logger:      logger.With("component", "broadcast_hub"),
	}
}

// Subscribe registers a watcher for one order. The returned cancel function
// removes the subscription and closes the channel; it is safe to call more
// than once.
func (h *Hub) Subscribe(orderID kernel.UUID) (<-chan Event, func()) {
	key := orderID.String()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[int]chan Event)
	}
	id := h.nextID
	h.nextID++
	h.subscribers[key][id] = ch
	h.mu.Unlock()

	// Closing under the same mutex publish sends under guarantees no send
	// can race the close.
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers[key], id)
			if len(h.subscribers[key]) == 0 {
				delete(h.subscribers, key)
			}
			close(ch)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// PublishStatusChanged announces the order's current state to its watchers.
// The event carries the updated snapshot so subscribers do not refetch.
func (h *Hub) PublishStatusChanged(aggregate *order.Order) {
	snapshot := &OrderSnapshot{
		ID:         aggregate.ID().String(),
		PharmacyID: aggregate.PharmacyID().String(),
		CustomerID: aggregate.CustomerID().String(),
		Status:     aggregate.Status().String(),
		Total:      aggregate.Total(),
	}
	if agentID := aggregate.DeliveryAgent(); agentID != nil {
		snapshot.AgentID = agentID.String()
	}
	if location := aggregate.TrackingLocation(); location != nil {
		lat, lng := location.Latitude(), location.Longitude()
		snapshot.TrackingLat, snapshot.TrackingLng = &lat, &lng
	}
	history := aggregate.History()
	snapshot.History = make([]HistoryEntry, len(history))
	for i, change := range history {
		snapshot.History[i] = HistoryEntry{
			Status:    change.Status().String(),
			Timestamp: change.Timestamp(),
			Note:      change.Note(),
		}
	}

	h.publish(Event{
		Type:      EventStatusChanged,
		OrderID:   snapshot.ID,
		Order:     snapshot,
		Timestamp: time.Now(),
	})
}

// PublishLocationUpdated announces a courier position to the order's watchers.
func (h *Hub) PublishLocationUpdated(orderID kernel.UUID, location kernel.GeoPoint) {
	lat, lng := location.Latitude(), location.Longitude()
	h.publish(Event{
		Type:      EventLocationUpdated,
		OrderID:   orderID.String(),
		Lat:       &lat,
		Lng:       &lng,
		Timestamp: time.Now(),
	})
}

// publish fans the event out under the mutex. Sends are non-blocking, so
// holding the lock costs at most one buffer write per subscriber and keeps
// sends ordered against concurrent unsubscribes.
func (h *Hub) publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subscribers[event.OrderID] {
		select {
		case ch <- event:
		default:
			h.logger.Warn("dropping event for slow subscriber",
				"orderId", event.OrderID, "type", string(event.Type))
		}
	}
}
