package tableview

// Indicator is the per-column sort marker a table header renders.
type Indicator string

const (
	IndicatorNone       Indicator = "none"
	IndicatorAscending  Indicator = "asc"
	IndicatorDescending Indicator = "desc"
)

// SortState is the single-active-column toggle machine: selecting the active
// key flips its direction, selecting any other key activates it ascending.
// It cycles indefinitely; there is no terminal state.
type SortState struct {
	Key       string
	Direction Direction
}

// NewSortState starts at the configured default key, ascending.
func NewSortState(defaultKey string) SortState {
	return SortState{Key: defaultKey, Direction: Ascending}
}

// Toggle advances the state for a clicked column key.
func (s *SortState) Toggle(key string) {
	if s.Key == key {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Key = key
	s.Direction = Ascending
}

// Indicator returns the marker for a column under the current state. Only
// the active column ever shows a direction.
func (s SortState) Indicator(key string) Indicator {
	if s.Key != key {
		return IndicatorNone
	}
	if s.Direction == Descending {
		return IndicatorDescending
	}
	return IndicatorAscending
}
