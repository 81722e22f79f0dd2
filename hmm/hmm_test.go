package hmm

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoundary(t *testing.T) *Model {
	t.Helper()
	m, err := Boundary(map[string]map[string]float64{
		TagB: {"你": -1, "好": -10},
		TagE: {"你": -10, "好": -1},
		TagS: {"你": -5, "好": -5},
	})
	require.NoError(t, err)
	return m
}

func decodeLabels(m *Model, obs []rune) []string {
	ids, _ := m.Decode(obs)
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = m.labels[id]
	}
	return labels
}

func testTagger(t *testing.T) *Model {
	t.Helper()
	m, err := New(Tables{
		Start: map[string]float64{"B-n": -0.5, "E-n": MinProb, "S-v": -0.9},
		Trans: map[string]map[string]float64{
			"B-n": {"E-n": -0.1},
			"E-n": {"B-n": -1, "S-v": -1},
			"S-v": {"B-n": -1, "S-v": -1},
		},
		Emit: map[string]map[string]float64{
			"B-n": {"猫": -2},
			"E-n": {"咪": -2},
			"S-v": {"跑": -1, "猫": -3, "咪": -3},
		},
		StateTab: map[string][]string{"跑": {"S-v"}},
	})
	require.NoError(t, err)
	return m
}

func TestNew_OrdersLabels(t *testing.T) {
	m := testBoundary(t)
	assert.Equal(t, []string{"B", "E", "M", "S"}, m.labels)
	assert.Equal(t, 4, m.States())
	assert.Equal(t, "M", m.labels[2])
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Tables{})
	assert.Error(t, err)

	_, err = New(Tables{
		Start: map[string]float64{"S": 0},
		Trans: map[string]map[string]float64{"S": {"X": 0}},
	})
	assert.Error(t, err)

	_, err = New(Tables{
		Start: map[string]float64{"S": 0},
		Emit:  map[string]map[string]float64{"S": {"ab": 0}},
	})
	assert.Error(t, err)

	_, err = New(Tables{
		Start:    map[string]float64{"S": 0},
		StateTab: map[string][]string{"a": {"B"}},
	})
	assert.Error(t, err)
}

func TestDecode_Boundary(t *testing.T) {
	m := testBoundary(t)

	assert.Equal(t, []string{"B", "E"}, decodeLabels(m, []rune("你好")))
	assert.Equal(t, []Span{{Start: 0, End: 2}}, m.Segment([]rune("你好")))

	// B scores better on its own but cannot close a word.
	assert.Equal(t, []string{"S"}, decodeLabels(m, []rune("你")))

	ids, logProb := m.Decode(nil)
	assert.Empty(t, ids)
	assert.Zero(t, logProb)
}

func TestDecode_StateTable(t *testing.T) {
	m := testTagger(t)

	ids, logProb := m.Decode([]rune("猫咪跑"))
	assert.Len(t, ids, 3)
	assert.InDelta(t, -6.6, logProb, 1e-9)
	assert.Equal(t, []string{"B-n", "E-n", "S-v"}, decodeLabels(m, []rune("猫咪跑")))
	assert.Equal(t, []Span{
		{Start: 0, End: 2, Tag: "n"},
		{Start: 2, End: 3, Tag: "v"},
	}, m.Segment([]rune("猫咪跑")))
}

func TestDecode_TieBreakPrefersGreaterLabel(t *testing.T) {
	m, err := New(Tables{
		Start: map[string]float64{"S-p": -1, "S-q": -1},
		Trans: map[string]map[string]float64{
			"S-p": {"S-p": -1, "S-q": -1},
			"S-q": {"S-p": -1, "S-q": -1},
		},
		Emit: map[string]map[string]float64{
			"S-p": {"a": -1, "b": -1},
			"S-q": {"a": -1, "b": -1},
		},
	})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		assert.Equal(t, []string{"S-q", "S-q"}, decodeLabels(m, []rune("ab")))
	}
}

func TestDecode_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		tables   Tables
		obs      string
		expected []string
	}{
		{
			// "y" only allows S-c, which nothing reaches: score the reachable states.
			name: "reachable states",
			tables: Tables{
				Start: map[string]float64{"S-a": -1, "S-b": -1, "S-c": -1},
				Trans: map[string]map[string]float64{
					"S-a": {"S-a": -1, "S-b": -2},
					"S-b": {"S-b": -1},
				},
				Emit: map[string]map[string]float64{
					"S-a": {"x": -1},
					"S-b": {"y": -1},
					"S-c": {"y": -0.1},
				},
				StateTab: map[string][]string{"x": {"S-a"}, "y": {"S-c"}},
			},
			obs:      "xy",
			expected: []string{"S-a", "S-b"},
		},
		{
			// S-a leads nowhere: every state is scored and the tie goes to the greater label.
			name: "all states",
			tables: Tables{
				Start: map[string]float64{"S-a": -1, "S-b": -1},
				Emit: map[string]map[string]float64{
					"S-a": {"x": -1, "y": -1},
					"S-b": {"y": -1},
				},
				StateTab: map[string][]string{"x": {"S-a"}},
			},
			obs:      "xy",
			expected: []string{"S-a", "S-b"},
		},
		{
			name: "termination tie",
			tables: Tables{
				Start: map[string]float64{"S-p": -1, "S-q": -1},
				Emit: map[string]map[string]float64{
					"S-p": {"a": -1},
					"S-q": {"a": -1},
				},
			},
			obs:      "a",
			expected: []string{"S-q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.tables)
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				assert.Equal(t, tt.expected, decodeLabels(m, []rune(tt.obs)))
			}
		})
	}
}

func TestDecode_TaggerEndsOnAnyState(t *testing.T) {
	tables := Tables{
		Start: map[string]float64{"B-n": -0.1, "E-n": MinProb, "S-n": -5},
		Trans: map[string]map[string]float64{
			"B-n": {"E-n": -0.1},
			"E-n": {"B-n": -1, "S-n": -1},
			"S-n": {"B-n": -1, "S-n": -1},
		},
		Emit: map[string]map[string]float64{
			"B-n": {"猫": -1},
			"S-n": {"猫": -1},
		},
	}
	m, err := New(tables)
	require.NoError(t, err)

	// A tagging model picks the best last state, even one that opens a word.
	assert.Equal(t, []string{"B-n"}, decodeLabels(m, []rune("猫")))
	assert.Equal(t, []Span{{Start: 0, End: 1, Tag: "n"}}, m.Segment([]rune("猫")))
}

func TestSegment_OpenTail(t *testing.T) {
	m, err := New(Tables{
		Start: map[string]float64{"B-x": -1, "M-x": -2},
		Trans: map[string]map[string]float64{
			"B-x": {"M-x": -1},
			"M-x": {"M-x": -1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []Span{{Start: 0, End: 3, Tag: "x"}}, m.Segment([]rune("abc")))
}

func TestLoadTables(t *testing.T) {
	content := `{
  "start": {"S-n": -0.5, "B-n": -1.0, "E-n": -3.14e100},
  "trans": {"B-n": {"E-n": -0.1}, "E-n": {"S-n": -1}, "S-n": {"S-n": -1, "B-n": -1}},
  "emit": {"S-n": {"猫": -1}},
  "state_tab": {"猫": ["S-n", "B-n"]}
}`
	path := filepath.Join(t.TempDir(), "pos.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"B-n", "E-n", "S-n"}, m.labels)
	assert.Equal(t, []string{"S-n"}, decodeLabels(m, []rune("猫")))

	_, err = LoadModel(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadTables(bad)
	assert.Error(t, err)
}

func TestLoadBoundary(t *testing.T) {
	_, err := LoadBoundary("")
	assert.ErrorIs(t, err, ErrModelNotConfigured)

	noEmit := filepath.Join(t.TempDir(), "start.json")
	require.NoError(t, os.WriteFile(noEmit, []byte(`{"start": {"B": -1, "E": -1, "M": -1, "S": -1}}`), 0o644))
	_, err = LoadBoundary(noEmit)
	assert.ErrorIs(t, err, ErrNoEmissions)

	_, err = Boundary(nil)
	assert.ErrorIs(t, err, ErrNoEmissions)
	_, err = Boundary(map[string]map[string]float64{TagB: {}})
	assert.ErrorIs(t, err, ErrNoEmissions)

	path := filepath.Join(t.TempDir(), "emit.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"emit": {"B": {"你": -1}, "E": {"好": -1}, "S": {"你": -5, "好": -5}}}`), 0o644))
	m, err := LoadBoundary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "E"}, decodeLabels(m, []rune("你好")))
}

func TestLazy_LoadsOnce(t *testing.T) {
	var calls atomic.Int32
	lazy := Once(func() (*Model, error) {
		calls.Add(1)
		return Boundary(map[string]map[string]float64{TagS: {"你": -1}})
	})

	var wg sync.WaitGroup
	models := make([]*Model, 8)
	for i := range models {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := lazy.Model()
			assert.NoError(t, err)
			models[i] = m
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, m := range models {
		assert.Same(t, models[0], m)
	}
}

func TestLazy_Ready(t *testing.T) {
	m := testBoundary(t)
	got, err := Ready(m).Model()
	require.NoError(t, err)
	assert.Same(t, m, got)

	_, err = Ready(nil).Model()
	assert.ErrorIs(t, err, ErrModelNotConfigured)

	_, err = Once(nil).Model()
	assert.ErrorIs(t, err, ErrModelNotConfigured)
}
