// Package elevator simulates the motion of a single elevator car in
// continuous time. The car works through an ordered list of task floors,
// opening its doors at each one, and can be stopped part-way between
// floors when the simulation clock must not run past a given timestamp.
package elevator

import (
	"fmt"
	"math"
)

// snapEpsilon absorbs float drift so partial moves that land on a floor
// are treated as being exactly at that floor.
const snapEpsilon = 1e-9

// Config holds the car's timing parameters, in seconds.
type Config struct {
	InitialFloor   int     `json:"initial_floor"`
	SecondsPerUp   float64 `json:"seconds_per_up"`
	SecondsPerDown float64 `json:"seconds_per_down"`
	DoorOpenTime   float64 `json:"door_open_time"`
	DoorCloseTime  float64 `json:"door_close_time"`
}

// Validate rejects configurations the kinematics cannot run with.
func (c Config) Validate() error {
	if c.InitialFloor < 1 {
		return fmt.Errorf("initial floor must be at least 1, got %d", c.InitialFloor)
	}
	if c.SecondsPerUp <= 0 || c.SecondsPerDown <= 0 {
		return fmt.Errorf("travel times must be positive (up=%v, down=%v)", c.SecondsPerUp, c.SecondsPerDown)
	}
	if c.DoorOpenTime < 0 || c.DoorCloseTime < 0 {
		return fmt.Errorf("door times must be non-negative (open=%v, close=%v)", c.DoorOpenTime, c.DoorCloseTime)
	}
	return nil
}

// FloorPass records the moment the car reached an integer floor.
type FloorPass struct {
	TS    float64
	Floor int
}

// Elevator is the simulated car.
type Elevator struct {
	cfg Config

	ts        float64
	location  float64
	doorsOpen bool
	tasks     []int
	passes    []FloorPass
}

// New places a car at cfg.InitialFloor with closed doors at time 0.
func New(cfg Config) *Elevator {
	return &Elevator{
		cfg:      cfg,
		location: float64(cfg.InitialFloor),
	}
}

// SetTasks replaces the task list. The slice is copied.
func (e *Elevator) SetTasks(floors []int) {
	e.tasks = append(e.tasks[:0:0], floors...)
}

// Tasks returns a copy of the pending task floors.
func (e *Elevator) Tasks() []int {
	return append([]int(nil), e.tasks...)
}

// Status returns the simulation clock and the car location.
func (e *Elevator) Status() (ts, location float64) {
	return e.ts, e.location
}

// Idle reports whether there is nothing left to do.
func (e *Elevator) Idle() bool { return len(e.tasks) == 0 }

// DoorsOpen reports whether the car is stopped at a floor with doors open.
func (e *Elevator) DoorsOpen() bool { return e.doorsOpen }

// FloorLog returns every integer floor reached so far, in time order.
func (e *Elevator) FloorLog() []FloorPass {
	return append([]FloorPass(nil), e.passes...)
}

// RunToNextTask moves the car to its next task and opens the doors there.
// It does nothing when the task list is empty.
func (e *Elevator) RunToNextTask() {
	e.run(0, false)
}

// RunUntil moves the car toward its next task without letting the clock
// pass maxTS on the way. If the task can be reached strictly before maxTS
// the car arrives and opens its doors, which may finish after maxTS; door
// closing likewise completes once started. With no tasks the car waits
// until maxTS.
func (e *Elevator) RunUntil(maxTS float64) {
	e.run(maxTS, true)
}

func (e *Elevator) run(maxTS float64, bounded bool) {
	if bounded && e.ts >= maxTS {
		return
	}
	if len(e.tasks) == 0 {
		if bounded {
			e.ts = maxTS
		}
		return
	}

	if e.doorsOpen {
		e.ts += e.cfg.DoorCloseTime
		e.doorsOpen = false
		if bounded && e.ts >= maxTS {
			return
		}
	}

	target := float64(e.tasks[0])
	diff := target - e.location
	perFloor := e.cfg.SecondsPerUp
	if diff < 0 {
		perFloor = e.cfg.SecondsPerDown
	}
	travel := perFloor * math.Abs(diff)

	if !bounded || e.ts+travel < maxTS {
		e.logPasses(e.location, target, e.ts, perFloor)
		e.ts += travel + e.cfg.DoorOpenTime
		e.location = target
		e.doorsOpen = true
		e.tasks = e.tasks[1:]
		return
	}

	step := (maxTS - e.ts) / perFloor
	next := e.location + math.Copysign(step, diff)
	next = snap(next)
	e.logPasses(e.location, next, e.ts, perFloor)
	e.location = next
	e.ts = maxTS
}

// logPasses records every integer floor strictly after from up to and
// including to, timestamped by when the car reaches it.
func (e *Elevator) logPasses(from, to, start, perFloor float64) {
	switch {
	case to > from:
		for f := math.Floor(from+snapEpsilon) + 1; f <= to+snapEpsilon; f++ {
			e.passes = append(e.passes, FloorPass{TS: start + (f-from)*perFloor, Floor: int(f)})
		}
	case to < from:
		for f := math.Ceil(from-snapEpsilon) - 1; f >= to-snapEpsilon; f-- {
			e.passes = append(e.passes, FloorPass{TS: start + (from-f)*perFloor, Floor: int(f)})
		}
	}
}

func snap(x float64) float64 {
	if r := math.Round(x); math.Abs(x-r) < snapEpsilon {
		return r
	}
	return x
}
