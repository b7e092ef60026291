package algo

import "math"

// Shabbat ignores riders entirely and stops at every floor on the way up
// and on the way down. The task list always covers two full rounds from
// the car's current position, so any waiting or riding rider is reached
// before it runs dry.
type Shabbat struct {
	maxFloor  int
	location  float64
	direction Direction
}

func NewShabbat(p Params) *Shabbat {
	return &Shabbat{
		maxFloor:  p.MaxFloor,
		location:  float64(p.InitialFloor),
		direction: initialDirection(p),
	}
}

func (a *Shabbat) Name() string { return "shabbat" }

func (a *Shabbat) Heartbeat(_ float64, location float64) {
	switch {
	case location <= 1:
		a.direction = Up
	case location >= float64(a.maxFloor):
		a.direction = Down
	case location > a.location:
		a.direction = Up
	case location < a.location:
		a.direction = Down
	}
	a.location = location
}

func (a *Shabbat) RegisterSource(int, int, int) []int { return a.sweeps() }
func (a *Shabbat) RegisterDestination(int, int) []int { return a.sweeps() }
func (a *Shabbat) ReportPickup(float64, int) []int { return a.sweeps() }
func (a *Shabbat) ReportDropoff(float64, int) []int { return a.sweeps() }

func (a *Shabbat) sweeps() []int {
	if a.maxFloor < 2 {
		return []int{1}
	}
	var out []int
	up := func(from int) {
		for f := from; f <= a.maxFloor; f++ {
			out = append(out, f)
		}
	}
	down := func(from int) {
		for f := from; f >= 1; f-- {
			out = append(out, f)
		}
	}

	if a.direction == Up {
		up(int(math.Floor(a.location+snapTolerance)) + 1)
		down(a.maxFloor - 1)
		up(2)
		down(a.maxFloor - 1)
	} else {
		down(int(math.Ceil(a.location-snapTolerance)) - 1)
		up(2)
		down(a.maxFloor - 1)
		up(2)
	}
	return out
}

const snapTolerance = 1e-9
