package replay

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/liftsim/internal/trace"
)

func twoRiderTrace() *trace.Trace {
	return &trace.Trace{
		Floors:       4,
		InitialFloor: 1,
		Events: []trace.Event{
			{TS: 0, EventType: trace.EventRequest, EventFloor: 3, ElevatorFloor: 1, Rider: trace.Rider(0)},
			{TS: 1, EventType: trace.EventRequest, EventFloor: 3, ElevatorFloor: 1, Rider: trace.Rider(1)},
			{TS: 3, EventType: trace.EventFloorPassed, EventFloor: 2, ElevatorFloor: 2},
			{TS: 8, EventType: trace.EventPickup, EventFloor: 3, ElevatorFloor: 3, Rider: trace.Rider(0)},
			{TS: 8, EventType: trace.EventPickup, EventFloor: 3, ElevatorFloor: 3, Rider: trace.Rider(1)},
			{TS: 15, EventType: trace.EventDropoff, EventFloor: 4, ElevatorFloor: 4, Rider: trace.Rider(0)},
			{TS: 25, EventType: trace.EventDropoff, EventFloor: 1, ElevatorFloor: 1, Rider: trace.Rider(1)},
		},
	}
}

func TestLayoutElevatorY(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, 15.0, l.ElevatorY(1))
	assert.Equal(t, 65.0, l.ElevatorY(2))
	assert.Equal(t, 40.0, l.ElevatorY(1.5))
	assert.Equal(t, 10.0, l.FloorTop(1))
	assert.Equal(t, 160.0, l.FloorTop(4))
}

func TestLayoutMovementDuration(t *testing.T) {
	l := DefaultLayout()
	assert.Equal(t, 300*time.Millisecond, l.MovementDuration(1, 4))
	assert.Equal(t, 300*time.Millisecond, l.MovementDuration(4, 1))
	assert.Equal(t, time.Duration(0), l.MovementDuration(2, 2))

	l.FloorsPerSecond = 0
	assert.Equal(t, time.Duration(0), l.MovementDuration(1, 10))
}

func TestStepAppliesEvents(t *testing.T) {
	p, err := NewPlayer(twoRiderTrace(), DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, -1, p.Index())

	f, err := p.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, f.FloorRiders[3].Count)
	assert.Equal(t, "red", f.FloorRiders[3].Color)
	assert.Equal(t, "0 / 7", f.Progress)

	f, _ = p.Step()
	assert.Equal(t, 2, f.FloorRiders[3].Count)

	f, _ = p.Step()
	assert.Equal(t, 2.0, f.CurrentFloor)
	assert.Equal(t, 1.0, f.PreviousFloor)
	assert.Equal(t, int64(100), f.AnimationMS)
	assert.Equal(t, "", f.EventText)

	f, _ = p.Step()
	assert.Equal(t, 1, f.FloorRiders[3].Count)
	assert.Equal(t, 1, f.CarRiders.Count)
	assert.Equal(t, "PICKUP", f.EventText)
	assert.Equal(t, "blue", f.EventColor)

	f, _ = p.Step()
	assert.Equal(t, 0, f.FloorRiders[3].Count)
	assert.Equal(t, "black", f.FloorRiders[3].Color)
	assert.Equal(t, 2, f.CarRiders.Count)
	assert.Equal(t, int64(0), f.AnimationMS)

	f, _ = p.Step()
	assert.Equal(t, "DROPOFF", f.EventText)
	assert.Equal(t, "red", f.EventColor)
	assert.Equal(t, 1, f.CarRiders.Count)
	assert.False(t, f.Done)

	f, _ = p.Step()
	assert.Equal(t, 0, f.CarRiders.Count)
	assert.Equal(t, "black", f.CarRiders.Color)
	assert.True(t, f.Done)
	assert.True(t, p.Done())
}

func TestStepPastEndIsNoOp(t *testing.T) {
	p, err := NewPlayer(twoRiderTrace(), DefaultLayout())
	require.NoError(t, err)

	var last Frame
	for i := 0; i < p.Len(); i++ {
		last, err = p.Step()
		require.NoError(t, err)
	}

	for i := 0; i < 3; i++ {
		f, err := p.Step()
		require.True(t, errors.Is(err, ErrNoMoreSteps))
		assert.Equal(t, last.Index, f.Index)
		assert.Equal(t, p.Len()-1, p.Index())
	}
}

func TestEmptyTrace(t *testing.T) {
	p, err := NewPlayer(&trace.Trace{Floors: 3, InitialFloor: 2}, DefaultLayout())
	require.NoError(t, err)
	assert.True(t, p.Done())

	init := p.Initial()
	assert.Equal(t, 2.0, init.CurrentFloor)
	assert.Equal(t, 65.0, init.ElevatorY)

	_, err = p.Step()
	assert.True(t, errors.Is(err, ErrNoMoreSteps))
}

func TestCountersNeverNegative(t *testing.T) {
	tr := &trace.Trace{Floors: 3, InitialFloor: 1, Events: []trace.Event{
		{TS: 0, EventType: trace.EventPickup, EventFloor: 2, ElevatorFloor: 2, Rider: trace.Rider(0)},
		{TS: 1, EventType: trace.EventDropoff, EventFloor: 3, ElevatorFloor: 3, Rider: trace.Rider(0)},
		{TS: 2, EventType: trace.EventDropoff, EventFloor: 3, ElevatorFloor: 3, Rider: trace.Rider(1)},
	}}
	p, err := NewPlayer(tr, DefaultLayout())
	require.NoError(t, err)

	f, _ := p.Step()
	assert.Equal(t, 0, f.FloorRiders[2].Count)
	assert.NotEmpty(t, f.Anomaly)

	f, _ = p.Step()
	assert.Equal(t, 0, f.CarRiders.Count)
	assert.Empty(t, f.Anomaly)

	f, _ = p.Step()
	assert.Equal(t, 0, f.CarRiders.Count)
	assert.NotEmpty(t, f.Anomaly)
}

func TestWellFormedTraceKeepsCountersNonNegative(t *testing.T) {
	p, err := NewPlayer(twoRiderTrace(), DefaultLayout())
	require.NoError(t, err)
	for {
		f, err := p.Step()
		if errors.Is(err, ErrNoMoreSteps) {
			break
		}
		require.NoError(t, err)
		assert.Empty(t, f.Anomaly)
		assert.GreaterOrEqual(t, f.CarRiders.Count, 0)
		for floor, c := range f.FloorRiders {
			assert.GreaterOrEqual(t, c.Count, 0, "floor %d", floor)
		}
	}
}

func TestSeekAndReset(t *testing.T) {
	p, err := NewPlayer(twoRiderTrace(), DefaultLayout())
	require.NoError(t, err)

	f, err := p.Seek(4)
	require.NoError(t, err)
	assert.Equal(t, 4, f.Index)
	assert.Equal(t, 2, f.CarRiders.Count)

	f, err = p.Seek(1)
	require.NoError(t, err)
	assert.Equal(t, 2, f.FloorRiders[3].Count)
	assert.Equal(t, 0, f.CarRiders.Count)

	_, err = p.Seek(99)
	require.Error(t, err)

	p.Reset()
	assert.Equal(t, -1, p.Index())
	assert.Equal(t, 1.0, p.Initial().CurrentFloor)
}

func TestSeekAnimatesFromPreviousPosition(t *testing.T) {
	p, err := NewPlayer(twoRiderTrace(), DefaultLayout())
	require.NoError(t, err)

	// Stepping to index 1 leaves the car at floor 1.
	_, err = p.Seek(1)
	require.NoError(t, err)

	// Event 5 was reached by a one-floor move, but the seek moves 1 -> 4.
	f, err := p.Seek(5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f.PreviousFloor)
	assert.Equal(t, 4.0, f.CurrentFloor)
	assert.Equal(t, int64(300), f.AnimationMS)

	// Seeking to where the car already is does not animate.
	f, err = p.Seek(5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.AnimationMS)

	f, err = p.Seek(-1)
	require.NoError(t, err)
	assert.Equal(t, 4.0, f.PreviousFloor)
	assert.Equal(t, 1.0, f.CurrentFloor)
	assert.Equal(t, int64(300), f.AnimationMS)
}

func TestUnknownEventOnlyMovesCar(t *testing.T) {
	tr := &trace.Trace{Floors: 3, InitialFloor: 1, Events: []trace.Event{
		{TS: 0, EventType: "DOOR_OPEN", EventFloor: 2, ElevatorFloor: 2},
		{TS: 1, EventType: trace.EventRequest, EventFloor: 2, ElevatorFloor: 2, Rider: trace.Rider(0)},
	}}
	p, err := NewPlayer(tr, DefaultLayout())
	require.NoError(t, err)

	f, err := p.Step()
	require.NoError(t, err)
	assert.Equal(t, 0, p.Index())
	assert.Equal(t, 1.0, f.PreviousFloor)
	assert.Equal(t, 2.0, f.CurrentFloor)
	assert.Equal(t, int64(100), f.AnimationMS)
	assert.Empty(t, f.EventText)
	assert.Empty(t, f.Anomaly)
	assert.Equal(t, 0, f.CarRiders.Count)
	for floor, c := range f.FloorRiders {
		assert.Equal(t, 0, c.Count, "floor %d", floor)
	}

	f, err = p.Step()
	require.NoError(t, err)
	assert.Equal(t, 1, f.FloorRiders[2].Count)
}

func TestSnapshotIsIndependent(t *testing.T) {
	p, err := NewPlayer(twoRiderTrace(), DefaultLayout())
	require.NoError(t, err)
	_, err = p.Step()
	require.NoError(t, err)

	snap, err := p.Snapshot()
	require.NoError(t, err)
	snap.FloorRiders[3] = Counter{Count: 42}

	again, err := p.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1, again.FloorRiders[3].Count)
}

func TestNewPlayerRejectsInvalidTrace(t *testing.T) {
	_, err := NewPlayer(&trace.Trace{Floors: 0}, DefaultLayout())
	assert.True(t, errors.Is(err, trace.ErrInvalidTrace))

	_, err = NewPlayer(nil, DefaultLayout())
	assert.True(t, errors.Is(err, trace.ErrInvalidTrace))
}
