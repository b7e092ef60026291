// Package monitor records what happens to every rider during a simulation
// and turns the record into a replay trace and summary statistics.
package monitor

import (
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/elevator"
	"github.com/ziadkadry99/liftsim/internal/trace"
)

type riderTimes struct {
	request, pickup, dropoff        float64
	requested, pickedUp, droppedOff bool
}

// Monitor collects rider events in the order they are reported.
type Monitor struct {
	logger *zap.Logger

	events []trace.Event
	passes []elevator.FloorPass
	riders map[int]*riderTimes
	order  []int
}

// New creates an empty monitor. A nil logger discards event logs.
func New(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{logger: logger, riders: make(map[int]*riderTimes)}
}

func (m *Monitor) rider(id int) *riderTimes {
	rt, ok := m.riders[id]
	if !ok {
		rt = &riderTimes{}
		m.riders[id] = rt
		m.order = append(m.order, id)
	}
	return rt
}

func (m *Monitor) add(ts float64, rider int, typ trace.EventType, floor int, carFloor float64) {
	m.events = append(m.events, trace.Event{
		TS:            ts,
		EventType:     typ,
		EventFloor:    floor,
		ElevatorFloor: carFloor,
		Rider:         trace.Rider(rider),
	})
	m.logger.Debug("rider event",
		zap.Float64("ts", ts),
		zap.String("type", string(typ)),
		zap.Int("rider", rider),
		zap.Int("floor", floor),
		zap.Float64("elevator_floor", carFloor),
	)
}

// Request records a rider calling the car from source while the car is
// at carFloor.
func (m *Monitor) Request(ts float64, rider, source int, carFloor float64) {
	rt := m.rider(rider)
	rt.request, rt.requested = ts, true
	m.add(ts, rider, trace.EventRequest, source, carFloor)
}

// Pickup records a rider boarding at floor.
func (m *Monitor) Pickup(ts float64, rider, floor int) {
	rt := m.rider(rider)
	rt.pickup, rt.pickedUp = ts, true
	m.add(ts, rider, trace.EventPickup, floor, float64(floor))
}

// Dropoff records a rider leaving at floor.
func (m *Monitor) Dropoff(ts float64, rider, floor int) {
	rt := m.rider(rider)
	rt.dropoff, rt.droppedOff = ts, true
	m.add(ts, rider, trace.EventDropoff, floor, float64(floor))
}

// FloorPasses replaces the recorded car movement with the elevator's
// floor log.
func (m *Monitor) FloorPasses(passes []elevator.FloorPass) {
	m.passes = append(m.passes[:0:0], passes...)
}

// Events returns the rider events in report order.
func (m *Monitor) Events() []trace.Event {
	return append([]trace.Event(nil), m.events...)
}

// Trace merges rider events and floor passes into a replayable trace
// ordered by timestamp. Events sharing a timestamp keep report order,
// rider events ahead of floor passes.
func (m *Monitor) Trace(floors, initialFloor int) *trace.Trace {
	events := make([]trace.Event, 0, len(m.events)+len(m.passes))
	events = append(events, m.events...)
	for _, p := range m.passes {
		events = append(events, trace.Event{
			TS:            p.TS,
			EventType:     trace.EventFloorPassed,
			EventFloor:    p.Floor,
			ElevatorFloor: float64(p.Floor),
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].TS < events[j].TS })

	return &trace.Trace{
		Floors:       max(floors, initialFloor),
		InitialFloor: initialFloor,
		Events:       events,
	}
}

// PrintEvents writes one line per rider event.
func (m *Monitor) PrintEvents(w io.Writer) error {
	for _, e := range m.events {
		if _, err := fmt.Fprintf(w, "TS: %9.2f ; Floor %4d ; %-8s rider %d\n", e.TS, e.EventFloor, e.EventType, e.RiderID()); err != nil {
			return err
		}
	}
	return nil
}
