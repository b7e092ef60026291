package demand

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	in := "timestamp,source_floor,destination_floor\n0,1,5\n2.5, 4, 1\n2.5,3,3\n"
	reqs, err := Parse(strings.NewReader(in), 5)
	require.NoError(t, err)
	assert.Equal(t, []Request{
		{Rider: 0, TS: 0, Source: 1, Destination: 5},
		{Rider: 1, TS: 2.5, Source: 4, Destination: 1},
		{Rider: 2, TS: 2.5, Source: 3, Destination: 3},
	}, reqs)
	assert.Equal(t, 5, MaxFloor(reqs))
}

func TestParseHeaderOnly(t *testing.T) {
	reqs, err := Parse(strings.NewReader("timestamp,source_floor,destination_floor\n"), 10)
	require.NoError(t, err)
	assert.Empty(t, reqs)
	assert.Equal(t, 0, MaxFloor(reqs))
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		rows string
		want string
	}{
		{"negative timestamp", "-1,1,2", "line 2"},
		{"zero floor", "0,0,2", "at least 1"},
		{"negative floor", "0,2,-3", "at least 1"},
		{"above max floor", "0,1,11", "max floor 10"},
		{"out of order", "5,1,2\n4,2,1", "line 3"},
		{"not a number", "abc,1,2", "bad timestamp"},
		{"missing column", "1,2", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader("timestamp,source_floor,destination_floor\n"+tt.rows+"\n"), 10)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseUnboundedMaxFloor(t *testing.T) {
	reqs, err := Parse(strings.NewReader("h1,h2,h3\n0,1,250\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, 250, MaxFloor(reqs))
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""), 0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestWriteThenLoad(t *testing.T) {
	reqs := []Request{
		{Rider: 0, TS: 0, Source: 1, Destination: 7},
		{Rider: 1, TS: 12.25, Source: 7, Destination: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, reqs))
	assert.Equal(t, "timestamp,source_floor,destination_floor\n0,1,7\n12.25,7,2\n", buf.String())

	path := filepath.Join(t.TempDir(), "sim.csv")
	require.NoError(t, WriteFile(path, reqs))
	got, err := Load(path, 7)
	require.NoError(t, err)
	assert.Equal(t, reqs, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), 0)
	assert.Error(t, err)
}

func TestFreeForAll(t *testing.T) {
	reqs, floors := FreeForAll(rand.New(rand.NewSource(1)))
	assert.GreaterOrEqual(t, floors, 5)
	assert.LessOrEqual(t, floors, 100)
	assert.LessOrEqual(t, len(reqs), 1000)

	last := 0.0
	for i, r := range reqs {
		assert.Equal(t, i, r.Rider)
		assert.NotEqual(t, r.Source, r.Destination)
		assert.GreaterOrEqual(t, r.TS, last)
		assert.LessOrEqual(t, r.TS-last, 60.0)
		assert.LessOrEqual(t, MaxFloor([]Request{r}), floors)
		last = r.TS
	}
}

func TestFreeForAllDeterministic(t *testing.T) {
	a, fa := FreeForAll(rand.New(rand.NewSource(7)))
	b, fb := FreeForAll(rand.New(rand.NewSource(7)))
	assert.Equal(t, fa, fb)
	assert.Equal(t, a, b)
}

func TestOfficeBuilding(t *testing.T) {
	reqs, floors := OfficeBuilding(rand.New(rand.NewSource(3)))
	require.NotEmpty(t, reqs)

	last := 0.0
	for i, r := range reqs {
		assert.Equal(t, i, r.Rider)
		assert.GreaterOrEqual(t, r.TS, last)
		assert.LessOrEqual(t, r.TS, float64(8*hour))
		// Every trip starts or ends in the lobby.
		assert.True(t, r.Source == GroundFloor || r.Destination == GroundFloor)
		assert.LessOrEqual(t, MaxFloor([]Request{r}), floors)
		last = r.TS
	}

	// Generated scenarios must survive a round trip through the loader.
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, reqs))
	_, err := Parse(&buf, floors)
	assert.NoError(t, err)
}

func TestGenerate(t *testing.T) {
	for _, kind := range Kinds() {
		reqs, floors, err := Generate(kind, rand.New(rand.NewSource(1)))
		require.NoError(t, err, kind)
		assert.Positive(t, floors)
		assert.NotNil(t, reqs)
	}
	_, _, err := Generate("hotel", rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Contains(t, err.Error(), `"hotel"`)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.csv", "office/a.csv", "office/deep/c.csv", "notes.txt"} {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("timestamp,source_floor,destination_floor\n"), 0o644))
	}

	all, err := Discover(root, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "b.csv"),
		filepath.Join(root, "office", "a.csv"),
		filepath.Join(root, "office", "deep", "c.csv"),
	}, all)

	office, err := Discover(root, "office/*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "office", "a.csv")}, office)

	_, err = Discover(root, "[")
	assert.Error(t, err)
}
