package results

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ziadkadry99/liftsim/internal/sim"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = fmt.Errorf("run not found: %w", sql.ErrNoRows)

// Run is one recorded simulation result.
type Run struct {
	ID        string    `json:"id"`
	Algorithm string    `json:"algorithm"`
	Scenario  string    `json:"scenario"`
	Floors    int       `json:"floors"`
	Riders    int       `json:"riders"`
	Served    int       `json:"served"`
	TotalTime float64   `json:"total_time"`
	WaitTotal float64   `json:"wait_total"`
	WaitAvg   float64   `json:"wait_avg"`
	WaitMax   float64   `json:"wait_max"`
	RideTotal float64   `json:"ride_total"`
	RideAvg   float64   `json:"ride_avg"`
	RideMax   float64   `json:"ride_max"`
	DestTotal float64   `json:"dest_total"`
	DestAvg   float64   `json:"dest_avg"`
	DestMax   float64   `json:"dest_max"`
	TracePath string    `json:"trace_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FromResult flattens a simulation result into a Run ready to record.
func FromResult(res sim.Result) *Run {
	s := res.Stats
	return &Run{
		Algorithm: res.Algorithm,
		Scenario:  res.Scenario,
		Floors:    res.Floors,
		Riders:    res.Riders,
		Served:    s.Served,
		TotalTime: s.TotalTime,
		WaitTotal: s.Wait.Total,
		WaitAvg:   s.Wait.Avg,
		WaitMax:   s.Wait.Max,
		RideTotal: s.Ride.Total,
		RideAvg:   s.Ride.Avg,
		RideMax:   s.Ride.Max,
		DestTotal: s.Destination.Total,
		DestAvg:   s.Destination.Avg,
		DestMax:   s.Destination.Max,
	}
}

// Metrics are the per-run numbers Compare aggregates, in report order.
var Metrics = []string{
	"total_time",
	"wait_total", "wait_avg", "wait_max",
	"ride_total", "ride_avg", "ride_max",
	"dest_total", "dest_avg", "dest_max",
}

// Metric returns the named metric of the run.
func (r *Run) Metric(name string) (float64, bool) {
	switch name {
	case "total_time":
		return r.TotalTime, true
	case "wait_total":
		return r.WaitTotal, true
	case "wait_avg":
		return r.WaitAvg, true
	case "wait_max":
		return r.WaitMax, true
	case "ride_total":
		return r.RideTotal, true
	case "ride_avg":
		return r.RideAvg, true
	case "ride_max":
		return r.RideMax, true
	case "dest_total":
		return r.DestTotal, true
	case "dest_avg":
		return r.DestAvg, true
	case "dest_max":
		return r.DestMax, true
	}
	return 0, false
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Algorithm string
	Scenario  string
	Limit     int
}
