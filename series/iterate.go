package series

import (
	"iter"
	"time"
)

// iterate returns an iterator over all unique, sorted instants from multiple sorted slices.
func iterate(timelines ...[]time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		indexes := make([]int, len(timelines))
		for {
			var (
				m     time.Time
				found bool
			)
			for i, index := range indexes {
				if index >= len(timelines[i]) {
					continue
				}
				if t := timelines[i][index]; !found || t.Before(m) {
					m, found = t, true
				}
			}
			if !found {
				// every timeline has been consumed.
				return
			}
			// consume all the heads equal to the min.
			for i, index := range indexes {
				if index < len(timelines[i]) && timelines[i][index].Equal(m) {
					indexes[i]++
				}
			}
			if !yield(m) {
				return
			}
		}
	}
}

// Iterate returns an iterator over the sorted union of the instants of all the series.
// Nil series are ignored.
func Iterate(series ...*Series) iter.Seq[time.Time] {
	timelines := make([][]time.Time, 0, len(series))
	for _, s := range series {
		if s.Len() > 0 {
			timelines = append(timelines, s.times)
		}
	}
	return iterate(timelines...)
}
