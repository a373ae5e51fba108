package pstore

// TimeSpan is an absolute [Start, End) interval. The step driver
// advances State.currentTime to End before any simulation work begins,
// so "End" is always the new clock (spec.md §3).
type TimeSpan struct {
	Start float64
	End   float64
}

// NewTimeSpan returns the span [start, start+duration).
func NewTimeSpan(start, duration float64) TimeSpan {
	return TimeSpan{Start: start, End: start + duration}
}

// Duration returns End - Start.
func (t TimeSpan) Duration() float64 { return t.End - t.Start }
