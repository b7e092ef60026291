package sim

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ziadkadry99/liftsim/internal/algo"
	"github.com/ziadkadry99/liftsim/internal/demand"
	"github.com/ziadkadry99/liftsim/internal/elevator"
	"github.com/ziadkadry99/liftsim/internal/trace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() elevator.Config {
	return elevator.Config{
		InitialFloor:   1,
		SecondsPerUp:   3,
		SecondsPerDown: 2,
		DoorOpenTime:   2,
		DoorCloseTime:  2,
	}
}

func TestRunSingleRider(t *testing.T) {
	reqs := []demand.Request{{Rider: 0, TS: 0, Source: 1, Destination: 3}}
	r, err := NewRunner(testConfig(), "fifo", reqs, WithLogger(zaptest.NewLogger(t)), WithScenario("one"))
	require.NoError(t, err)

	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fifo", res.Algorithm)
	assert.Equal(t, "one", res.Scenario)
	assert.Equal(t, 3, res.Floors)
	assert.Equal(t, 1, res.Riders)
	assert.Equal(t, 1, res.Stats.Served)
	assert.Equal(t, 12.0, res.Stats.TotalTime)
	assert.Equal(t, 2.0, res.Stats.Wait.Total)
	assert.Equal(t, 10.0, res.Stats.Ride.Total)
	assert.Equal(t, 12.0, res.Stats.Destination.Total)

	require.NoError(t, res.Trace.ValidateStrict())
	var got []trace.EventType
	var ts []float64
	for _, e := range res.Trace.Events {
		got = append(got, e.EventType)
		ts = append(ts, e.TS)
	}
	assert.Equal(t, []trace.EventType{
		trace.EventRequest,
		trace.EventPickup,
		trace.EventFloorPassed,
		trace.EventFloorPassed,
		trace.EventDropoff,
	}, got)
	assert.Equal(t, []float64{0, 2, 7, 10, 12}, ts)
}

func TestRunRiderArrivesWhileDoorsOpen(t *testing.T) {
	reqs := []demand.Request{
		{Rider: 0, TS: 0, Source: 1, Destination: 2},
		{Rider: 1, TS: 20, Source: 2, Destination: 1},
	}
	r, err := NewRunner(testConfig(), "knuth", reqs)
	require.NoError(t, err)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Stats.Served)
	// The car is parked at floor 2 with doors open, so rider 1 boards at once.
	assert.Equal(t, 2.0, res.Stats.Wait.Total)
}

func TestShabbatServesOneFloorBuilding(t *testing.T) {
	reqs := []demand.Request{
		{Rider: 0, TS: 0, Source: 1, Destination: 1},
		{Rider: 1, TS: 30, Source: 1, Destination: 1},
	}
	r, err := NewRunner(testConfig(), "shabbat", reqs, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	res, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Floors)
	assert.Equal(t, 2, res.Stats.Served)
	assert.Empty(t, res.Stats.Incomplete)
}

func TestRunEmptyScenario(t *testing.T) {
	r, err := NewRunner(testConfig(), "knuth", nil)
	require.NoError(t, err)
	res, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Riders)
	assert.Empty(t, res.Trace.Events)
	assert.Equal(t, 1, res.Trace.Floors)
}

func TestAllAlgorithmsServeEveryone(t *testing.T) {
	reqs, _ := demand.FreeForAll(rand.New(rand.NewSource(11)))
	if len(reqs) > 80 {
		reqs = reqs[:80]
	}
	for _, name := range algo.Names() {
		t.Run(name, func(t *testing.T) {
			r, err := NewRunner(testConfig(), name, reqs)
			require.NoError(t, err)
			res, err := r.Run(context.Background())
			require.NoError(t, err)

			assert.Empty(t, res.Stats.Incomplete)
			assert.Equal(t, len(reqs), res.Stats.Served)
			require.NoError(t, res.Trace.ValidateStrict())

			// Every rider goes through request, pickup and dropoff in order.
			seen := map[int][]trace.EventType{}
			for _, e := range res.Trace.Events {
				if e.Rider != nil {
					seen[*e.Rider] = append(seen[*e.Rider], e.EventType)
				}
			}
			for id, evs := range seen {
				assert.Equal(t, []trace.EventType{trace.EventRequest, trace.EventPickup, trace.EventDropoff}, evs, "rider %d", id)
			}
		})
	}
}

func TestNewRunnerErrors(t *testing.T) {
	_, err := NewRunner(testConfig(), "nope", nil)
	assert.ErrorIs(t, err, algo.ErrUnknownAlgorithm)

	bad := testConfig()
	bad.SecondsPerUp = 0
	_, err = NewRunner(bad, "fifo", nil)
	assert.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	reqs := []demand.Request{{Rider: 0, TS: 0, Source: 1, Destination: 3}}
	r, err := NewRunner(testConfig(), "fifo", reqs)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func writeScenario(t *testing.T, dir, name string, reqs []demand.Request) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, demand.WriteFile(path, reqs))
	return path
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeScenario(t, dir, "a.csv", []demand.Request{{TS: 0, Source: 1, Destination: 4}})
	b := writeScenario(t, dir, "b.csv", []demand.Request{{TS: 0, Source: 3, Destination: 1}, {TS: 5, Source: 2, Destination: 5}})

	done := 0
	results, err := Batch(context.Background(), testConfig(), []string{a, b}, []string{"fifo", "knuth"}, 2, func(Result) { done++ })
	require.NoError(t, err)
	assert.Equal(t, 4, done)
	require.Len(t, results, 4)

	for i, job := range Jobs([]string{a, b}, []string{"fifo", "knuth"}) {
		assert.Equal(t, job.Scenario, results[i].Scenario)
		assert.Equal(t, job.Algorithm, results[i].Algorithm)
		assert.Empty(t, results[i].Stats.Incomplete)
	}
	assert.Equal(t, 1, results[0].Riders)
	assert.Equal(t, 2, results[3].Riders)
}

func TestBatchFailure(t *testing.T) {
	dir := t.TempDir()
	a := writeScenario(t, dir, "a.csv", []demand.Request{{TS: 0, Source: 1, Destination: 4}})

	_, err := Batch(context.Background(), testConfig(), []string{a}, []string{"fifo", "bogus"}, 0, nil)
	assert.ErrorIs(t, err, algo.ErrUnknownAlgorithm)

	_, err = Batch(context.Background(), testConfig(), []string{filepath.Join(dir, "missing.csv")}, []string{"fifo"}, 1, nil)
	assert.Error(t, err)
}
