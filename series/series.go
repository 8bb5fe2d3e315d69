// Package series stores quote time series and answers forward-filled lookups on them.
package series

import (
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Series stores a chronological series of closing prices, each associated with an instant.
// Instants are unique and the series is always sorted.
type Series struct {
	times  []time.Time
	values []decimal.Decimal
}

// New returns a series holding the given points, in any order.
func New(points map[time.Time]decimal.Decimal) *Series {
	s := new(Series)
	for t, v := range points {
		s.Append(t, v)
	}
	return s
}

// Len returns the number of points in the series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.times)
}

// Latest returns the latest instant and value in the series.
// If the series is empty, it returns zero values.
func (s *Series) Latest() (time.Time, decimal.Decimal) {
	last := s.Len() - 1
	if last < 0 {
		return time.Time{}, decimal.Decimal{}
	}
	return s.times[last], s.values[last]
}

// First returns the earliest instant in the series, or the zero time.
func (s *Series) First() time.Time {
	if s.Len() == 0 {
		return time.Time{}
	}
	return s.times[0]
}

// search returns the index where t is or would be inserted.
func (s *Series) search(t time.Time) (int, bool) {
	return slices.BinarySearchFunc(s.times, t, func(a, b time.Time) int { return a.Compare(b) })
}

// Append adds a point to the series.
//
// An existing value at that exact instant is overwritten.
func (s *Series) Append(t time.Time, v decimal.Decimal) *Series {
	i, found := s.search(t)
	if found {
		// the last data wins.
		s.values[i] = v
		return s
	}
	s.times = slices.Insert(s.times, i, t)
	s.values = slices.Insert(s.values, i, v)
	return s
}

// Values returns an iterator over all instant/value pairs in chronological order.
func (s *Series) Values() iter.Seq2[time.Time, decimal.Decimal] {
	return func(yield func(time.Time, decimal.Decimal) bool) {
		for i := 0; i < s.Len(); i++ {
			if !yield(s.times[i], s.values[i]) {
				return
			}
		}
	}
}

// Times returns a copy of the instants of the series.
func (s *Series) Times() []time.Time {
	if s.Len() == 0 {
		return nil
	}
	return slices.Clone(s.times)
}

// Get returns the value at exactly t and true, or the zero value and false.
func (s *Series) Get(t time.Time) (decimal.Decimal, bool) {
	if s.Len() == 0 {
		return decimal.Decimal{}, false
	}
	if i, found := s.search(t); found {
		return s.values[i], true
	}
	return decimal.Decimal{}, false
}

// ValueAsOf returns the value at t, or the most recent value before it.
//
// This is a forward-fill: there is no backward fill, so an instant before the first
// point has no value.
func (s *Series) ValueAsOf(t time.Time) (decimal.Decimal, bool) {
	if s.Len() == 0 {
		return decimal.Decimal{}, false
	}
	i, found := s.search(t)
	if found {
		return s.values[i], true
	}
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return s.values[i-1], true
}

// Since returns a new series with the points at or after t.
func (s *Series) Since(t time.Time) *Series {
	res := new(Series)
	if s.Len() == 0 {
		return res
	}
	i, _ := s.search(t)
	res.times = slices.Clone(s.times[i:])
	res.values = slices.Clone(s.values[i:])
	return res
}
