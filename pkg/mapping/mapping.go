// Package mapping defines the candidate vertex mapping produced by matchers.
//
// A [Mapping] assigns each vertex of the smaller graph either a vertex of the
// larger graph or nothing. Unassigned positions are reported through the
// second return value of [Mapping.Target]; callers never see an in-band
// sentinel index. Mappings are not required to be injective: two source
// vertices may share a target. Whether that is allowed is decided by the
// agent that constructs the mapping, not by this package or by scoring.
package mapping

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// unmapped marks an unassigned position in the backing slice.
const unmapped = -1

// ErrTargetOutOfRange is returned by [Mapping.Validate] when a target lies
// outside the larger graph.
var ErrTargetOutOfRange = errors.New("mapping target out of range")

// Mapping is an ordered assignment from source vertices 0..Len()-1 to
// target vertices.
//
// The zero value is an empty mapping. Mapping values share their backing
// storage on copy; use [Mapping.Clone] before mutating a mapping that is
// retained elsewhere.
type Mapping struct {
	targets []int
}

// New returns a mapping of length n with every position unassigned.
func New(n int) Mapping {
	t := make([]int, n)
	for i := range t {
		t[i] = unmapped
	}
	return Mapping{targets: t}
}

// FromSlice builds a mapping from plain integers. Negative entries mean
// unassigned. The slice is copied.
func FromSlice(s []int) Mapping {
	t := make([]int, len(s))
	for i, v := range s {
		if v < 0 {
			v = unmapped
		}
		t[i] = v
	}
	return Mapping{targets: t}
}

// Len returns the number of source positions.
func (m Mapping) Len() int { return len(m.targets) }

// Target returns the target of source vertex i and whether i is assigned.
// Positions outside 0..Len()-1 report false.
func (m Mapping) Target(i int) (int, bool) {
	if i < 0 || i >= len(m.targets) {
		return 0, false
	}
	t := m.targets[i]
	return t, t != unmapped
}

// Assign maps source vertex i to target j. j must be non-negative.
func (m Mapping) Assign(i, j int) {
	if j < 0 {
		panic(fmt.Sprintf("mapping: negative target %d", j))
	}
	m.targets[i] = j
}

// Unassign clears the target of source vertex i.
func (m Mapping) Unassign(i int) { m.targets[i] = unmapped }

// Swap exchanges the targets of source vertices i and k.
func (m Mapping) Swap(i, k int) {
	m.targets[i], m.targets[k] = m.targets[k], m.targets[i]
}

// Mapped returns the number of assigned positions.
func (m Mapping) Mapped() int {
	n := 0
	for _, t := range m.targets {
		if t != unmapped {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (m Mapping) Clone() Mapping {
	return Mapping{targets: slices.Clone(m.targets)}
}

// Equal reports whether both mappings assign every position identically.
func (m Mapping) Equal(o Mapping) bool {
	return slices.Equal(m.targets, o.targets)
}

// IsInjective reports whether no two assigned positions share a target.
func (m Mapping) IsInjective() bool {
	seen := make(map[int]struct{}, len(m.targets))
	for _, t := range m.targets {
		if t == unmapped {
			continue
		}
		if _, dup := seen[t]; dup {
			return false
		}
		seen[t] = struct{}{}
	}
	return true
}

// Validate checks that every assigned target is below targetSize.
func (m Mapping) Validate(targetSize int) error {
	for i, t := range m.targets {
		if t != unmapped && (t < 0 || t >= targetSize) {
			return fmt.Errorf("%w: position %d maps to %d (size %d)", ErrTargetOutOfRange, i, t, targetSize)
		}
	}
	return nil
}

// Ints returns a copy of the mapping as integers, with -1 for unassigned
// positions. It is the inverse of [FromSlice].
func (m Mapping) Ints() []int { return slices.Clone(m.targets) }

// String formats the mapping as "[0 2 _ 1]" with "_" for unassigned.
func (m Mapping) String() string {
	buf := []byte{'['}
	for i, t := range m.targets {
		if i > 0 {
			buf = append(buf, ' ')
		}
		if t == unmapped {
			buf = append(buf, '_')
		} else {
			buf = fmt.Appendf(buf, "%d", t)
		}
	}
	return string(append(buf, ']'))
}

// MarshalJSON encodes the mapping as an array with null for unassigned.
func (m Mapping) MarshalJSON() ([]byte, error) {
	out := make([]*int, len(m.targets))
	for i, t := range m.targets {
		if t != unmapped {
			out[i] = &t
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an array of integers and nulls.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var in []*int
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	t := make([]int, len(in))
	for i, p := range in {
		switch {
		case p == nil:
			t[i] = unmapped
		case *p < 0:
			return fmt.Errorf("%w: position %d maps to %d", ErrTargetOutOfRange, i, *p)
		default:
			t[i] = *p
		}
	}
	m.targets = t
	return nil
}
