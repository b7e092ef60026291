package replay

import (
	"math"
	"time"
)

// Layout holds the canvas geometry of the visualizer. All distances are
// in canvas pixels; floor 1 is drawn at the top margin.
type Layout struct {
	Margin          float64 `json:"margin"`
	FloorHeight     float64 `json:"floor_height"`
	FloorWidth      float64 `json:"floor_width"`
	ElevatorHeight  float64 `json:"elevator_height"`
	ElevatorWidth   float64 `json:"elevator_width"`
	FloorsPerSecond float64 `json:"floors_per_second"`
}

// DefaultLayout returns the geometry the bundled page is drawn with.
func DefaultLayout() Layout {
	return Layout{
		Margin:          10,
		FloorHeight:     50,
		FloorWidth:      200,
		ElevatorHeight:  40,
		ElevatorWidth:   40,
		FloorsPerSecond: 10,
	}
}

// FloorTop is the y offset of the top edge of a floor row.
func (l Layout) FloorTop(floor int) float64 {
	return l.Margin + l.FloorHeight*float64(floor-1)
}

// ElevatorY is the y offset of the elevator box when it sits at floor,
// vertically centred in the floor row. Fractional floors land between rows.
func (l Layout) ElevatorY(floor float64) float64 {
	return l.Margin + l.FloorHeight*(floor-1) + (l.FloorHeight-l.ElevatorHeight)/2
}

// MovementDuration is how long the elevator tween between two floors runs.
func (l Layout) MovementDuration(from, to float64) time.Duration {
	if l.FloorsPerSecond <= 0 {
		return 0
	}
	seconds := math.Abs(to-from) / l.FloorsPerSecond
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// CanvasSize is the minimum canvas needed to draw floors rows plus the
// elevator column and its event label.
func (l Layout) CanvasSize(floors int) (width, height float64) {
	width = l.Margin + 40 + l.FloorWidth + 30 + l.ElevatorWidth + 10 + 120 + l.Margin
	height = 2*l.Margin + l.FloorHeight*float64(floors)
	return width, height
}
