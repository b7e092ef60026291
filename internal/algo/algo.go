// Package algo contains the elevator dispatch algorithms. An algorithm is
// told about rider requests, pickups and dropoffs as they happen and
// answers each notification with the full ordered list of floors the car
// should visit next.
package algo

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAlgorithm is returned by New for unregistered names.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Direction is a direction of travel.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	if d == Up {
		return Down
	}
	return Up
}

// DirectionOf is the direction a rider going from source to destination
// presses at the hall panel.
func DirectionOf(source, destination int) Direction {
	if destination >= source {
		return Up
	}
	return Down
}

// TaskType says why the car has to visit a floor.
type TaskType int

const (
	Pickup TaskType = iota
	Dropoff
)

// Task is one pending stop on behalf of a rider.
type Task struct {
	Rider     int
	Floor     int
	Type      TaskType
	Direction Direction
}

// Algorithm decides the order in which the car visits floors. Every
// notification returns the complete task list, replacing the previous one.
type Algorithm interface {
	Name() string
	// Heartbeat tells the algorithm the current time and car location.
	Heartbeat(ts, location float64)
	// RegisterSource is called when a rider requests the car. The
	// destination is passed along for bookkeeping; algorithms modelling a
	// hall panel only look at what such a panel would reveal.
	RegisterSource(rider, source, destination int) []int
	// RegisterDestination is called once the rider is inside and has
	// chosen a floor.
	RegisterDestination(rider, destination int) []int
	ReportPickup(ts float64, rider int) []int
	ReportDropoff(ts float64, rider int) []int
}

// Params are the building facts an algorithm is constructed with.
type Params struct {
	InitialFloor int
	MaxFloor     int
}

// Factory builds an algorithm instance.
type Factory func(Params) Algorithm

var registry = map[string]Factory{
	"fifo":         func(p Params) Algorithm { return NewFIFO(p) },
	"knuth":        func(p Params) Algorithm { return NewKnuth(p) },
	"knuth-updown": func(p Params) Algorithm { return NewUpDownKnuth(p) },
	"shabbat":      func(p Params) Algorithm { return NewShabbat(p) },
}

// New builds the algorithm registered under name.
func New(name string, p Params) (Algorithm, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownAlgorithm, name, Names())
	}
	return f(p), nil
}

// Names lists the registered algorithms in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is registered.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// taskSet is the rider bookkeeping shared by the request-driven algorithms.
type taskSet struct {
	tasks []Task
}

func (s *taskSet) add(t Task) {
	s.tasks = append(s.tasks, t)
}

func (s *taskSet) remove(rider int, typ TaskType) {
	for i, t := range s.tasks {
		if t.Rider == rider && t.Type == typ {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

func floorsOf(tasks []Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.Floor
	}
	return out
}

// compact drops consecutive duplicate floors so the car does not cycle its
// doors at a floor it is already stopped at.
func compact(floors []int) []int {
	if len(floors) < 2 {
		return floors
	}
	out := floors[:1]
	for _, f := range floors[1:] {
		if f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}
