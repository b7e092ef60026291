package algo

import "sort"

// UpDownKnuth is SCAN with up/down hall buttons: the car only stops on its
// way for riders who want to travel in the same direction, except for the
// farthest waiting rider, where it turns around anyway.
type UpDownKnuth struct {
	set       taskSet
	location  float64
	direction Direction
}

func NewUpDownKnuth(p Params) *UpDownKnuth {
	return &UpDownKnuth{
		location:  float64(p.InitialFloor),
		direction: initialDirection(p),
	}
}

func (a *UpDownKnuth) Name() string { return "knuth-updown" }

func (a *UpDownKnuth) Heartbeat(_ float64, location float64) { a.location = location }

func (a *UpDownKnuth) RegisterSource(rider, source, destination int) []int {
	a.set.add(Task{Rider: rider, Floor: source, Type: Pickup, Direction: DirectionOf(source, destination)})
	return a.next()
}

func (a *UpDownKnuth) RegisterDestination(rider, destination int) []int {
	a.set.add(Task{Rider: rider, Floor: destination, Type: Dropoff})
	return a.next()
}

func (a *UpDownKnuth) ReportPickup(_ float64, rider int) []int {
	a.set.remove(rider, Pickup)
	return a.next()
}

func (a *UpDownKnuth) ReportDropoff(_ float64, rider int) []int {
	a.set.remove(rider, Dropoff)
	return a.next()
}

func (a *UpDownKnuth) ahead(d Direction, floor int) bool {
	if d == Up {
		return float64(floor) >= a.location
	}
	return float64(floor) <= a.location
}

// pickupsFor returns indexes of the pickups a sweep in direction d stops
// for: riders heading in d, plus the last rider on the sweep if they head
// the other way.
func (a *UpDownKnuth) pickupsFor(d Direction, onlyAhead bool) []int {
	var idx []int
	for i, t := range a.set.tasks {
		if t.Type != Pickup {
			continue
		}
		if onlyAhead && !a.ahead(d, t.Floor) {
			continue
		}
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(x, y int) bool {
		fx, fy := a.set.tasks[idx[x]].Floor, a.set.tasks[idx[y]].Floor
		if d == Up {
			return fx < fy
		}
		return fx > fy
	})

	var out []int
	for _, i := range idx {
		if a.set.tasks[i].Direction == d {
			out = append(out, i)
		}
	}
	if n := len(idx); n > 0 && a.set.tasks[idx[n-1]].Direction != d {
		out = append(out, idx[n-1])
	}
	return out
}

func (a *UpDownKnuth) next() []int {
	if len(a.set.tasks) == 0 {
		return nil
	}

	anyAhead := false
	for _, t := range a.set.tasks {
		if a.ahead(a.direction, t.Floor) {
			anyAhead = true
			break
		}
	}
	if !anyAhead {
		a.direction = a.direction.Opposite()
	}
	d := a.direction

	chosen := make([]bool, len(a.set.tasks))
	pick := func(dst []int, i int) []int {
		if chosen[i] {
			return dst
		}
		chosen[i] = true
		return append(dst, a.set.tasks[i].Floor)
	}

	var current, reverse, later []int
	for _, i := range a.pickupsFor(d, true) {
		current = pick(current, i)
	}
	for i, t := range a.set.tasks {
		if t.Type != Pickup && a.ahead(d, t.Floor) {
			current = pick(current, i)
		}
	}
	for _, i := range a.pickupsFor(d.Opposite(), false) {
		reverse = pick(reverse, i)
	}
	for i, t := range a.set.tasks {
		if t.Type == Dropoff {
			reverse = pick(reverse, i)
		}
	}
	// Riders behind the car who head the same way wait for the next sweep.
	for i := range a.set.tasks {
		later = pick(later, i)
	}

	sortToward(current, d)
	sortToward(reverse, d.Opposite())
	sortToward(later, d)

	out := append(current, reverse...)
	return compact(append(out, later...))
}
