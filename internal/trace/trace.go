package trace

import (
	"errors"
	"fmt"
)

// ErrInvalidTrace is wrapped by every validation failure.
var ErrInvalidTrace = errors.New("invalid trace")

// EventType identifies what happened at a point in the trace.
type EventType string

const (
	EventRequest     EventType = "REQUEST"
	EventPickup      EventType = "PICKUP"
	EventDropoff     EventType = "DROPOFF"
	EventFloorPassed EventType = "FLOOR_PASSED"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventRequest, EventPickup, EventDropoff, EventFloorPassed:
		return true
	}
	return false
}

// RiderEvent reports whether events of this type carry a rider.
func (t EventType) RiderEvent() bool {
	return t == EventRequest || t == EventPickup || t == EventDropoff
}

// Event is one state change in the trace.
type Event struct {
	TS            float64   `json:"ts"`
	EventType     EventType `json:"event_type"`
	EventFloor    int       `json:"event_floor"`
	ElevatorFloor float64   `json:"elevator_floor"`
	Rider         *int      `json:"rider,omitempty"`
}

// RiderID returns the rider of the event, or -1 for events without one.
func (e Event) RiderID() int {
	if e.Rider == nil {
		return -1
	}
	return *e.Rider
}

// Trace is the full replayable record of a simulation run: the static
// building parameters plus the ordered event sequence.
type Trace struct {
	Floors       int     `json:"floors"`
	InitialFloor int     `json:"initial_floor"`
	Events       []Event `json:"events"`
}

// Rider returns a pointer suitable for Event.Rider.
func Rider(id int) *int {
	return &id
}

// Validate checks the structural invariants a replayer relies on. Events
// of unknown types are accepted; a replayer only moves the car for them.
func (t *Trace) Validate() error {
	if t.Floors <= 0 {
		return fmt.Errorf("%w: floors must be positive, got %d", ErrInvalidTrace, t.Floors)
	}
	if t.InitialFloor < 1 || t.InitialFloor > t.Floors {
		return fmt.Errorf("%w: initial_floor %d outside [1, %d]", ErrInvalidTrace, t.InitialFloor, t.Floors)
	}

	prevTS := 0.0
	for i, e := range t.Events {
		if e.TS < 0 {
			return fmt.Errorf("%w: event %d has negative timestamp %v", ErrInvalidTrace, i, e.TS)
		}
		if i > 0 && e.TS < prevTS {
			return fmt.Errorf("%w: event %d timestamp %v precedes %v", ErrInvalidTrace, i, e.TS, prevTS)
		}
		prevTS = e.TS

		if e.EventType.RiderEvent() && (e.EventFloor < 1 || e.EventFloor > t.Floors) {
			return fmt.Errorf("%w: event %d floor %d outside [1, %d]", ErrInvalidTrace, i, e.EventFloor, t.Floors)
		}
		if e.ElevatorFloor < 1 || e.ElevatorFloor > float64(t.Floors) {
			return fmt.Errorf("%w: event %d elevator floor %v outside [1, %d]", ErrInvalidTrace, i, e.ElevatorFloor, t.Floors)
		}
	}
	return nil
}

// ValidateStrict is Validate plus a check that every event type is known.
// Producers use it on traces they write.
func (t *Trace) ValidateStrict() error {
	if err := t.Validate(); err != nil {
		return err
	}
	for i, e := range t.Events {
		if !e.EventType.Valid() {
			return fmt.Errorf("%w: event %d has unknown type %q", ErrInvalidTrace, i, e.EventType)
		}
	}
	return nil
}

// Summary describes a trace at a glance.
type Summary struct {
	Floors       int               `json:"floors"`
	InitialFloor int               `json:"initial_floor"`
	Events       int               `json:"events"`
	Riders       int               `json:"riders"`
	Duration     float64           `json:"duration"`
	ByType       map[EventType]int `json:"by_type"`
}

// Summary counts events per type and distinct riders.
func (t *Trace) Summary() Summary {
	s := Summary{
		Floors:       t.Floors,
		InitialFloor: t.InitialFloor,
		Events:       len(t.Events),
		ByType:       make(map[EventType]int),
	}
	riders := make(map[int]struct{})
	for _, e := range t.Events {
		s.ByType[e.EventType]++
		if e.Rider != nil {
			riders[*e.Rider] = struct{}{}
		}
	}
	s.Riders = len(riders)
	if n := len(t.Events); n > 0 {
		s.Duration = t.Events[n-1].TS
	}
	return s
}
