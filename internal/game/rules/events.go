package rules

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lavaflow/lavaboard/internal/game/grid"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Game/Turn events
	EventGameStarted EventType = "GAME_STARTED"
	EventTurnStarted EventType = "TURN_STARTED"
	EventGameOver    EventType = "GAME_OVER"

	// Board events
	EventLavaPlaced  EventType = "LAVA_PLACED"
	EventLavaRemoved EventType = "LAVA_REMOVED"
	EventBlockPlaced EventType = "BLOCK_PLACED"
	EventWindChanged EventType = "WIND_CHANGED"
	EventCardPlayed  EventType = "CARD_PLAYED"
	EventEliminated  EventType = "PLAYER_ELIMINATED"
)

// Event represents a state change that renderers and other subsystems may react to.
type Event struct {
	Type        EventType      `json:"type"`
	ID          string         `json:"id"`                // Unique event ID
	GameID      string         `json:"game_id,omitempty"` // Session the event belongs to
	Tile        grid.TileID    `json:"tile"`              // Affected tile, grid.NoTile when none
	Coord       *grid.Coord    `json:"coord,omitempty"`   // Coordinate of Tile
	Player      int            `json:"player,omitempty"`  // Acting or eliminated player
	Winner      int            `json:"winner"`            // GAME_OVER only; 0 is a draw
	Wind        grid.Direction `json:"wind"`              // Wind after the event
	Card        string         `json:"card,omitempty"`    // Card name for CARD_PLAYED
	Turn        int            `json:"turn,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
	Description string         `json:"description,omitempty"` // Human-readable description
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener              // All listeners
	typedListeners map[EventType][]TypedListener // Listeners filtered by event type
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	listener := TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	}
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], listener)
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered with Subscribe or SubscribeTyped.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	bus.removeTyped(handle)
}

// UnsubscribeTyped removes a typed listener by handle.
func (bus *EventBus) UnsubscribeTyped(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.removeTyped(handle)
}

func (bus *EventBus) removeTyped(handle int) {
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners may subscribe or unsubscribe from inside a callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	handles := make([]int, 0, len(bus.listeners))
	for handle := range bus.listeners {
		handles = append(handles, handle)
	}
	all := make([]Listener, 0, len(handles))
	sort.Ints(handles)
	for _, handle := range handles {
		all = append(all, bus.listeners[handle])
	}
	typed := append([]TypedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	for _, listener := range all {
		listener(event)
	}
	for _, listener := range typed {
		listener.Callback(event)
	}
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, gameID string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		GameID:    gameID,
		Tile:      grid.NoTile,
		Timestamp: time.Now(),
	}
}

// NewTileEvent creates an event about a single tile.
func NewTileEvent(eventType EventType, gameID string, tile grid.TileID, coord grid.Coord) Event {
	evt := NewEvent(eventType, gameID)
	evt.Tile = tile
	evt.Coord = &coord
	return evt
}

// NewPlayerEvent creates an event about a player.
func NewPlayerEvent(eventType EventType, gameID string, player int) Event {
	evt := NewEvent(eventType, gameID)
	evt.Player = player
	return evt
}
