package pheromone

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/graphdiff/pkg/errors"
	"github.com/matzehuels/graphdiff/pkg/mapping"
)

func TestNewInitialTrails(t *testing.T) {
	tbl := New(2, 3, Options{Initial: 2})

	assert.Equal(t, 2.0, tbl.Trail(0, 0))
	assert.Equal(t, 2.0, tbl.Trail(1, 2))
	assert.Equal(t, 2.0, tbl.UnmappedTrail(1))
	assert.Equal(t, *DefaultOptions().Evaporation, *tbl.Options().Evaporation)
	assert.Equal(t, *DefaultOptions().Min, *tbl.Options().Min)
}

func TestUpdateEvaporatesAndDeposits(t *testing.T) {
	tbl := New(2, 2, Options{Initial: 1, Evaporation: Float(0.5), Min: Float(0.01), Max: 10})

	tbl.Update(mapping.FromSlice([]int{1, -1}), 0.25)

	assert.InDelta(t, 0.5, tbl.Trail(0, 0), 1e-12)
	assert.InDelta(t, 0.75, tbl.Trail(0, 1), 1e-12)
	assert.InDelta(t, 0.5, tbl.UnmappedTrail(0), 1e-12)
	assert.InDelta(t, 0.5, tbl.Trail(1, 0), 1e-12)
	assert.InDelta(t, 0.75, tbl.UnmappedTrail(1), 1e-12)
}

func TestZeroEvaporationAndFloor(t *testing.T) {
	tbl := New(1, 2, Options{Initial: 1, Evaporation: Float(0), Min: Float(0)})

	assert.Equal(t, 0.0, *tbl.Options().Evaporation)
	assert.Equal(t, 0.0, *tbl.Options().Min)

	m := mapping.FromSlice([]int{1})
	tbl.Update(m, 0.5)
	tbl.Update(m, 0.5)
	assert.InDelta(t, 1.0, tbl.Trail(0, 0), 1e-12)
	assert.InDelta(t, 2.0, tbl.Trail(0, 1), 1e-12)
	assert.InDelta(t, 1.0, tbl.UnmappedTrail(0), 1e-12)
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"defaults", DefaultOptions(), true},
		{"unset", Options{}, true},
		{"zero evaporation", Options{Evaporation: Float(0)}, true},
		{"full evaporation", Options{Evaporation: Float(1)}, true},
		{"negative evaporation", Options{Evaporation: Float(-0.1)}, false},
		{"evaporation above one", Options{Evaporation: Float(1.5)}, false},
		{"negative floor", Options{Min: Float(-1)}, false},
		{"negative ceiling", Options{Max: -1}, false},
		{"floor above ceiling", Options{Min: Float(5), Max: 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidParams), "err = %v", err)
			}
		})
	}
}

func TestUpdateClamps(t *testing.T) {
	tbl := New(1, 1, Options{Initial: 1, Evaporation: Float(0.9), Min: Float(0.5), Max: 1.2})

	m := mapping.FromSlice([]int{0})
	for range 5 {
		tbl.Update(m, 2)
	}
	assert.InDelta(t, 1.2, tbl.Trail(0, 0), 1e-12)
	assert.InDelta(t, 0.5, tbl.UnmappedTrail(0), 1e-12)
}

func TestUpdateIgnoresOutOfRange(t *testing.T) {
	tbl := New(1, 1, Options{Initial: 1, Evaporation: Float(0.5)})

	assert.NotPanics(t, func() {
		tbl.Update(mapping.FromSlice([]int{7, 0, 0}), 1)
	})
	assert.InDelta(t, 0.5, tbl.Trail(0, 0), 1e-12)
}

func TestRowCopies(t *testing.T) {
	tbl := New(2, 2, Options{Initial: 1})
	row := tbl.Row(0, nil)
	row[0] = 99

	assert.Len(t, row, 3)
	assert.Equal(t, 1.0, tbl.Trail(0, 0))
}

func TestConcurrentReadsDuringUpdates(t *testing.T) {
	tbl := New(8, 8, Options{})
	m := mapping.FromSlice([]int{0, 1, 2, 3, 4, 5, 6, 7})

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				_ = tbl.Trail(i%8, w)
				_ = tbl.UnmappedTrail(i % 8)
			}
		}()
	}
	for range 20 {
		tbl.Update(m, 0.5)
	}
	wg.Wait()

	opts := tbl.Options()
	assert.LessOrEqual(t, tbl.Trail(0, 0), opts.Max)
	assert.GreaterOrEqual(t, tbl.Trail(0, 1), *opts.Min)
}
