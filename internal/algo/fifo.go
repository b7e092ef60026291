package algo

// FIFO serves stops strictly in the order they were registered, even when
// the car drives straight past another waiting rider.
type FIFO struct {
	set taskSet
}

func NewFIFO(Params) *FIFO { return &FIFO{} }

func (a *FIFO) Name() string { return "fifo" }

func (a *FIFO) Heartbeat(float64, float64) {}

func (a *FIFO) RegisterSource(rider, source, _ int) []int {
	a.set.add(Task{Rider: rider, Floor: source, Type: Pickup})
	return floorsOf(a.set.tasks)
}

func (a *FIFO) RegisterDestination(rider, destination int) []int {
	a.set.add(Task{Rider: rider, Floor: destination, Type: Dropoff})
	return floorsOf(a.set.tasks)
}

func (a *FIFO) ReportPickup(_ float64, rider int) []int {
	a.set.remove(rider, Pickup)
	return floorsOf(a.set.tasks)
}

func (a *FIFO) ReportDropoff(_ float64, rider int) []int {
	a.set.remove(rider, Dropoff)
	return floorsOf(a.set.tasks)
}
