package demand

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// GroundFloor is the lobby of a generated office building.
const GroundFloor = 1

const hour = 60 * 60

// Generator names accepted by Generate.
const (
	FreeForAllKind     = "free_for_all"
	OfficeBuildingKind = "office_building"
)

// Kinds lists the generator names.
func Kinds() []string { return []string{FreeForAllKind, OfficeBuildingKind} }

// Generate dispatches to the generator called kind. It returns the requests
// and the number of floors of the generated building.
func Generate(kind string, rng *rand.Rand) ([]Request, int, error) {
	switch kind {
	case FreeForAllKind:
		reqs, floors := FreeForAll(rng)
		return reqs, floors, nil
	case OfficeBuildingKind:
		reqs, floors := OfficeBuilding(rng)
		return reqs, floors, nil
	}
	return nil, 0, fmt.Errorf("%w %q: must be one of %s", ErrUnknownKind, kind, strings.Join(Kinds(), ", "))
}

// FreeForAll builds a random building of 5 to 100 floors with up to 1000
// riders travelling between arbitrary floors, 0 to 60 seconds apart.
// Draws where source and destination coincide are skipped.
func FreeForAll(rng *rand.Rand) ([]Request, int) {
	floors := 5 + rng.Intn(96)
	events := 1 + rng.Intn(1000)

	var reqs []Request
	ts := 0.0
	for i := 0; i < events; i++ {
		next := ts + float64(rng.Intn(61))
		src := 1 + rng.Intn(floors)
		dst := 1 + rng.Intn(floors)
		if src == dst {
			continue
		}
		reqs = append(reqs, Request{Rider: len(reqs), TS: next, Source: src, Destination: dst})
		ts = next
	}
	return reqs, floors
}

// OfficeBuilding simulates an eight hour working day. Every employee has a
// desk on floor 2 or above, arrives from the lobby in the first two hours,
// leaves in the last two, and goes out for lunch with 80% probability.
// Employees never travel between two upper floors.
func OfficeBuilding(rng *rand.Rand) ([]Request, int) {
	const (
		dayEnd        = 8 * hour
		inboundEnd    = 2 * hour
		outboundStart = dayEnd - 2*hour
	)
	floors := 5 + rng.Intn(96)
	employees := 50 + rng.Intn(951)

	between := func(lo, hi int) float64 { return float64(lo + rng.Intn(hi-lo+1)) }

	var reqs []Request
	for e := 0; e < employees; e++ {
		desk := 2 + rng.Intn(floors-1)

		reqs = append(reqs,
			Request{TS: between(0, inboundEnd), Source: GroundFloor, Destination: desk},
			Request{TS: between(outboundStart, dayEnd), Source: desk, Destination: GroundFloor},
		)
		if rng.Float64() < 0.8 {
			out := between(inboundEnd, outboundStart)
			back := between(int(out), outboundStart)
			reqs = append(reqs,
				Request{TS: out, Source: desk, Destination: GroundFloor},
				Request{TS: back, Source: GroundFloor, Destination: desk},
			)
		}
	}

	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].TS < reqs[j].TS })
	for i := range reqs {
		reqs[i].Rider = i
	}
	return reqs, floors
}
