package algo

import "sort"

// Knuth is the classic elevator (SCAN) algorithm: keep travelling in the
// same direction while there are stops ahead, otherwise turn around. It
// sees only the floor a rider waits on, not where they are going.
type Knuth struct {
	set       taskSet
	location  float64
	direction Direction
}

func NewKnuth(p Params) *Knuth {
	return &Knuth{
		location:  float64(p.InitialFloor),
		direction: initialDirection(p),
	}
}

// initialDirection is up unless the car starts on the top floor.
func initialDirection(p Params) Direction {
	if p.InitialFloor < p.MaxFloor {
		return Up
	}
	return Down
}

func (a *Knuth) Name() string { return "knuth" }

func (a *Knuth) Heartbeat(_ float64, location float64) { a.location = location }

func (a *Knuth) RegisterSource(rider, source, _ int) []int {
	a.set.add(Task{Rider: rider, Floor: source, Type: Pickup})
	return a.next()
}

func (a *Knuth) RegisterDestination(rider, destination int) []int {
	a.set.add(Task{Rider: rider, Floor: destination, Type: Dropoff})
	return a.next()
}

func (a *Knuth) ReportPickup(_ float64, rider int) []int {
	a.set.remove(rider, Pickup)
	return a.next()
}

func (a *Knuth) ReportDropoff(_ float64, rider int) []int {
	a.set.remove(rider, Dropoff)
	return a.next()
}

func (a *Knuth) ahead(d Direction, floor int) bool {
	if d == Up {
		return float64(floor) >= a.location
	}
	return float64(floor) <= a.location
}

func (a *Knuth) next() []int {
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

	var current, reverse []int
	for _, t := range a.set.tasks {
		if a.ahead(a.direction, t.Floor) {
			current = append(current, t.Floor)
		} else {
			reverse = append(reverse, t.Floor)
		}
	}
	sortToward(current, a.direction)
	sortToward(reverse, a.direction.Opposite())
	return compact(append(current, reverse...))
}

// sortToward orders floors in the order a car travelling in d meets them.
func sortToward(floors []int, d Direction) {
	if d == Up {
		sort.Ints(floors)
		return
	}
	sort.Sort(sort.Reverse(sort.IntSlice(floors)))
}
