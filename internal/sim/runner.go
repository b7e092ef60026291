// Package sim drives a simulation: it feeds a demand scenario to a
// dispatch algorithm, moves the car accordingly and records everything in
// a performance monitor.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/ziadkadry99/liftsim/internal/algo"
	"github.com/ziadkadry99/liftsim/internal/demand"
	"github.com/ziadkadry99/liftsim/internal/elevator"
	"github.com/ziadkadry99/liftsim/internal/monitor"
	"github.com/ziadkadry99/liftsim/internal/trace"
)

// ErrStalled is returned when a run exceeds its step ceiling, which only
// happens with an algorithm that keeps the car busy without serving riders.
var ErrStalled = errors.New("simulation stalled")

// Result is the outcome of one run.
type Result struct {
	Algorithm string        `json:"algorithm"`
	Scenario  string        `json:"scenario"`
	Floors    int           `json:"floors"`
	Riders    int           `json:"riders"`
	Stats     monitor.Stats `json:"stats"`
	Trace     *trace.Trace  `json:"-"`
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for the run and its monitor.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithScenario names the scenario in the result.
func WithScenario(name string) Option {
	return func(r *Runner) { r.scenario = name }
}

// Runner owns one simulation: the car, the algorithm and the monitor.
type Runner struct {
	elevator  *elevator.Elevator
	algorithm algo.Algorithm
	monitor   *monitor.Monitor
	requests  []demand.Request

	cfg      elevator.Config
	floors   int
	scenario string
	logger   *zap.Logger
}

// NewRunner prepares a run of reqs with the named algorithm. The building
// is as tall as the highest floor the scenario or the car's starting
// position touches.
func NewRunner(cfg elevator.Config, algoName string, reqs []demand.Request, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("elevator config: %w", err)
	}
	floors := max(demand.MaxFloor(reqs), cfg.InitialFloor)
	a, err := algo.New(algoName, algo.Params{InitialFloor: cfg.InitialFloor, MaxFloor: floors})
	if err != nil {
		return nil, err
	}

	sorted := append([]demand.Request(nil), reqs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TS < sorted[j].TS })

	r := &Runner{
		elevator:  elevator.New(cfg),
		algorithm: a,
		requests:  sorted,
		cfg:       cfg,
		floors:    floors,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.monitor = monitor.New(r.logger)
	return r, nil
}

// stepLimit bounds the loop generously: every rider causes three task list
// refreshes, and each list is at most a few building sweeps long.
func (r *Runner) stepLimit() int {
	return 1000 + len(r.requests)*16*(r.floors+1)
}

// Run executes the simulation to completion. A Runner can only be run once.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	pending := r.requests
	waiting := make(map[int][]demand.Request)
	var riding []demand.Request
	nWaiting := 0

	update := func(call func() []int) {
		ts, loc := r.elevator.Status()
		r.algorithm.Heartbeat(ts, loc)
		r.elevator.SetTasks(call())
	}

	limit := r.stepLimit()
	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if step > limit {
			return nil, fmt.Errorf("%w: %s did not finish within %d steps", ErrStalled, r.algorithm.Name(), limit)
		}
		if len(pending) == 0 && (nWaiting+len(riding) == 0 || r.elevator.Idle()) {
			break
		}

		if len(pending) > 0 {
			r.elevator.RunUntil(pending[0].TS)
		} else {
			r.elevator.RunToNextTask()
		}
		ts, loc := r.elevator.Status()

		for len(pending) > 0 && pending[0].TS <= ts {
			req := pending[0]
			pending = pending[1:]
			r.monitor.Request(req.TS, req.Rider, req.Source, loc)
			waiting[req.Source] = append(waiting[req.Source], req)
			nWaiting++
			update(func() []int { return r.algorithm.RegisterSource(req.Rider, req.Source, req.Destination) })
		}

		if !r.elevator.DoorsOpen() || loc != math.Trunc(loc) {
			continue
		}
		floor := int(loc)

		for _, req := range waiting[floor] {
			r.monitor.Pickup(ts, req.Rider, floor)
			update(func() []int { return r.algorithm.ReportPickup(ts, req.Rider) })
			update(func() []int { return r.algorithm.RegisterDestination(req.Rider, req.Destination) })
			riding = append(riding, req)
		}
		nWaiting -= len(waiting[floor])
		delete(waiting, floor)

		kept := riding[:0]
		for _, req := range riding {
			if req.Destination != floor {
				kept = append(kept, req)
				continue
			}
			r.monitor.Dropoff(ts, req.Rider, floor)
			update(func() []int { return r.algorithm.ReportDropoff(ts, req.Rider) })
		}
		riding = kept
	}

	if n := nWaiting + len(riding); n > 0 {
		r.logger.Warn("riders left unserved",
			zap.String("algorithm", r.algorithm.Name()),
			zap.String("scenario", r.scenario),
			zap.Int("count", n),
		)
	}

	r.monitor.FloorPasses(r.elevator.FloorLog())
	return &Result{
		Algorithm: r.algorithm.Name(),
		Scenario:  r.scenario,
		Floors:    r.floors,
		Riders:    len(r.requests),
		Stats:     r.monitor.Stats(),
		Trace:     r.monitor.Trace(r.floors, r.cfg.InitialFloor),
	}, nil
}

// Monitor exposes the run's monitor, for printing events after Run.
func (r *Runner) Monitor() *monitor.Monitor { return r.monitor }

// RunFile loads the scenario at path and runs it with the named algorithm.
func RunFile(ctx context.Context, cfg elevator.Config, algoName, path string, opts ...Option) (*Runner, *Result, error) {
	reqs, err := demand.Load(path, 0)
	if err != nil {
		return nil, nil, err
	}
	opts = append([]Option{WithScenario(path)}, opts...)
	r, err := NewRunner(cfg, algoName, reqs, opts...)
	if err != nil {
		return nil, nil, err
	}
	res, err := r.Run(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("running %s on %s: %w", algoName, path, err)
	}
	return r, res, nil
}
