package monitor

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Metric aggregates one per-rider duration.
type Metric struct {
	Total float64 `json:"total"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
}

func (m *Metric) add(v float64) {
	m.Total += v
	m.Max = max(m.Max, v)
}

// Stats summarises a run. Wait is request to pickup, Ride is pickup to
// dropoff and Destination is request to dropoff.
type Stats struct {
	TotalTime   float64 `json:"total_time"`
	Riders      int     `json:"riders"`
	Served      int     `json:"served"`
	Incomplete  []int   `json:"incomplete,omitempty"`
	Wait        Metric  `json:"wait"`
	Ride        Metric  `json:"ride"`
	Destination Metric  `json:"destination"`
}

// Stats computes the run statistics. Riders missing any of their three
// events are listed as incomplete and left out of the metrics.
func (m *Monitor) Stats() Stats {
	var s Stats
	for _, e := range m.events {
		s.TotalTime = max(s.TotalTime, e.TS)
	}

	s.Riders = len(m.order)
	for _, id := range m.order {
		rt := m.riders[id]
		if !rt.requested || !rt.pickedUp || !rt.droppedOff {
			s.Incomplete = append(s.Incomplete, id)
			continue
		}
		s.Served++
		s.Wait.add(rt.pickup - rt.request)
		s.Ride.add(rt.dropoff - rt.pickup)
		s.Destination.add(rt.dropoff - rt.request)
	}
	if s.Served > 0 {
		n := float64(s.Served)
		s.Wait.Avg = s.Wait.Total / n
		s.Ride.Avg = s.Ride.Total / n
		s.Destination.Avg = s.Destination.Total / n
	}
	return s
}

// PrintStats writes the statistics as an aligned table.
func (m *Monitor) PrintStats(w io.Writer) error {
	return WriteStats(w, m.Stats())
}

// WriteStats writes s as an aligned table.
func WriteStats(w io.Writer, s Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total time\t%.2f\n", s.TotalTime)
	fmt.Fprintf(tw, "Riders served\t%d / %d\n", s.Served, s.Riders)
	if len(s.Incomplete) > 0 {
		fmt.Fprintf(tw, "Incomplete riders\t%v\n", s.Incomplete)
	}
	fmt.Fprintln(tw, "\tTotal\tAverage\tMax")
	for _, row := range []struct {
		name string
		m    Metric
	}{
		{"Wait time", s.Wait},
		{"Ride time", s.Ride},
		{"Time to destination", s.Destination},
	} {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", row.name, row.m.Total, row.m.Avg, row.m.Max)
	}
	return tw.Flush()
}
