package replay

import (
	"errors"
	"fmt"

	"github.com/tiendc/go-deepcopy"

	"github.com/ziadkadry99/liftsim/internal/trace"
)

// ErrNoMoreSteps is returned by Step once the last event has been shown.
var ErrNoMoreSteps = errors.New("no more steps")

const (
	colorIdle    = "black"
	colorActive  = "red"
	colorPickup  = "blue"
	colorDropoff = "red"
)

// Counter is a rider-count label and the color it is drawn in.
type Counter struct {
	Count int    `json:"count"`
	Color string `json:"color"`
}

func counterFor(n int) Counter {
	if n > 0 {
		return Counter{Count: n, Color: colorActive}
	}
	return Counter{Count: n, Color: colorIdle}
}

// Frame is everything the page needs to draw after one step.
type Frame struct {
	Index         int             `json:"index"`
	Total         int             `json:"total"`
	Progress      string          `json:"progress"`
	Event         *trace.Event    `json:"event,omitempty"`
	PreviousFloor float64         `json:"previous_floor"`
	CurrentFloor  float64         `json:"current_floor"`
	ElevatorY     float64         `json:"elevator_y"`
	AnimationMS   int64           `json:"animation_ms"`
	FloorRiders   map[int]Counter `json:"floor_riders"`
	CarRiders     Counter         `json:"car_riders"`
	EventText     string          `json:"event_text"`
	EventColor    string          `json:"event_color"`
	Anomaly       string          `json:"anomaly,omitempty"`
	Done          bool            `json:"done"`
}

// Player steps through a trace one event at a time, keeping the counters
// and elevator position the visualizer displays. A Player is not safe for
// concurrent use.
type Player struct {
	trace  *trace.Trace
	layout Layout

	index        int
	currentFloor float64
	waiting      []int
	inCar        int
	last         Frame
}

// NewPlayer validates tr and positions a player before its first event.
func NewPlayer(tr *trace.Trace, layout Layout) (*Player, error) {
	if tr == nil {
		return nil, fmt.Errorf("%w: nil trace", trace.ErrInvalidTrace)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	p := &Player{trace: tr, layout: layout}
	p.Reset()
	return p, nil
}

// Reset rewinds to the state before the first event.
func (p *Player) Reset() {
	p.index = -1
	p.currentFloor = float64(p.trace.InitialFloor)
	p.waiting = make([]int, p.trace.Floors+1)
	p.inCar = 0
	p.last = p.frame(nil, p.currentFloor, "", "", "")
}

// Index is the position of the last shown event, -1 before the first.
func (p *Player) Index() int { return p.index }

// Len is the number of events in the trace.
func (p *Player) Len() int { return len(p.trace.Events) }

// Done reports whether every event has been shown.
func (p *Player) Done() bool { return p.index >= len(p.trace.Events)-1 }

// Layout returns the geometry frames are computed with.
func (p *Player) Layout() Layout { return p.layout }

// Trace returns the trace being replayed.
func (p *Player) Trace() *trace.Trace { return p.trace }

// Initial describes the state before the first event without moving.
func (p *Player) Initial() Frame {
	initial := float64(p.trace.InitialFloor)
	floors := make(map[int]Counter, p.trace.Floors)
	for floor := 1; floor <= p.trace.Floors; floor++ {
		floors[floor] = counterFor(0)
	}
	total := len(p.trace.Events)
	return Frame{
		Index:         -1,
		Total:         total,
		Progress:      progress(-1, total),
		PreviousFloor: initial,
		CurrentFloor:  initial,
		ElevatorY:     p.layout.ElevatorY(initial),
		FloorRiders:   floors,
		CarRiders:     counterFor(0),
		Done:          total == 0,
	}
}

// Step shows the next event. Past the last event it returns
// ErrNoMoreSteps and leaves the state untouched.
func (p *Player) Step() (Frame, error) {
	if p.index+1 >= len(p.trace.Events) {
		return p.last, ErrNoMoreSteps
	}
	p.index++
	ev := p.trace.Events[p.index]

	previous := p.currentFloor
	p.currentFloor = ev.ElevatorFloor

	text, color, anomaly := p.apply(ev)
	p.last = p.frame(&ev, previous, text, color, anomaly)
	return p.last, nil
}

// Seek replays from the start so that index is the last shown event.
// An index of -1 is equivalent to Reset.
func (p *Player) Seek(index int) (Frame, error) {
	if index < -1 || index >= len(p.trace.Events) {
		return p.last, fmt.Errorf("seek index %d outside [-1, %d)", index, len(p.trace.Events))
	}
	from := p.currentFloor
	p.Reset()
	for p.index < index {
		if _, err := p.Step(); err != nil {
			return p.last, err
		}
	}
	// The car moves straight from where it was before the seek.
	p.last.PreviousFloor = from
	p.last.AnimationMS = p.layout.MovementDuration(from, p.currentFloor).Milliseconds()
	return p.last, nil
}

// Snapshot returns a deep copy of the most recent frame, safe to hand to
// another goroutine while the player keeps stepping.
func (p *Player) Snapshot() (Frame, error) {
	var out Frame
	if err := deepcopy.Copy(&out, &p.last); err != nil {
		return Frame{}, fmt.Errorf("copying frame: %w", err)
	}
	return out, nil
}

func (p *Player) apply(ev trace.Event) (text, color, anomaly string) {
	switch ev.EventType {
	case trace.EventRequest:
		p.waiting[ev.EventFloor]++
	case trace.EventPickup:
		if p.waiting[ev.EventFloor] > 0 {
			p.waiting[ev.EventFloor]--
		} else {
			anomaly = fmt.Sprintf("pickup at floor %d with nobody waiting", ev.EventFloor)
		}
		p.inCar++
		text, color = string(trace.EventPickup), colorPickup
	case trace.EventDropoff:
		if p.inCar > 0 {
			p.inCar--
		} else {
			anomaly = fmt.Sprintf("dropoff at floor %d with an empty car", ev.EventFloor)
		}
		text, color = string(trace.EventDropoff), colorDropoff
	case trace.EventFloorPassed:
	default:
		// Unknown types only move the car.
	}
	return text, color, anomaly
}

func (p *Player) frame(ev *trace.Event, previous float64, text, color, anomaly string) Frame {
	floors := make(map[int]Counter, p.trace.Floors)
	for floor := 1; floor <= p.trace.Floors; floor++ {
		floors[floor] = counterFor(p.waiting[floor])
	}
	total := len(p.trace.Events)
	return Frame{
		Index:         p.index,
		Total:         total,
		Progress:      progress(p.index, total),
		Event:         ev,
		PreviousFloor: previous,
		CurrentFloor:  p.currentFloor,
		ElevatorY:     p.layout.ElevatorY(p.currentFloor),
		AnimationMS:   p.layout.MovementDuration(previous, p.currentFloor).Milliseconds(),
		FloorRiders:   floors,
		CarRiders:     counterFor(p.inCar),
		EventText:     text,
		EventColor:    color,
		Anomaly:       anomaly,
		Done:          p.index >= total-1,
	}
}

func progress(index, total int) string {
	return fmt.Sprintf("%d / %d", index, total)
}
