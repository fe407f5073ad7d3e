package tableview

import "testing"

func TestSortStateToggleCyclesActiveColumn(t *testing.T) {
	state := NewSortState("name")
	if state.Key != "name" || state.Direction != Ascending {
		t.Fatalf("unexpected initial state: %+v", state)
	}

	state.Toggle("name")
	if state.Direction != Descending {
		t.Fatalf("expected descending after first toggle, got %s", state.Direction)
	}

	state.Toggle("name")
	if state.Direction != Ascending {
		t.Fatalf("expected ascending after second toggle, got %s", state.Direction)
	}
}

func TestSortStateToggleNewColumnResetsAscending(t *testing.T) {
	state := NewSortState("name")
	state.Toggle("name") // name desc

	state.Toggle("age")
	if state.Key != "age" || state.Direction != Ascending {
		t.Fatalf("expected age ascending, got %+v", state)
	}

	// Returning to the previous column starts ascending again; the old
	// direction is not remembered.
	state.Toggle("name")
	if state.Key != "name" || state.Direction != Ascending {
		t.Fatalf("expected name ascending, got %+v", state)
	}
}

func TestSortStateIndicatorOnlyOnActiveColumn(t *testing.T) {
	state := NewSortState("name")

	if got := state.Indicator("name"); got != IndicatorAscending {
		t.Fatalf("expected asc indicator, got %s", got)
	}
	if got := state.Indicator("age"); got != IndicatorNone {
		t.Fatalf("expected no indicator on inactive column, got %s", got)
	}

	state.Toggle("name")
	if got := state.Indicator("name"); got != IndicatorDescending {
		t.Fatalf("expected desc indicator, got %s", got)
	}
}
