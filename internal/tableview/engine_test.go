package tableview

import (
	"reflect"
	"testing"
)

type patientRow struct {
	Name      string
	Email     string
	RiskGroup string // empty means unassigned
	Age       float64
}

func patientView() *View[patientRow] {
	columns := []Column[patientRow]{
		{Key: "name", String: func(r patientRow) string { return r.Name }},
		{Key: "riskGroup", String: func(r patientRow) string {
			if r.RiskGroup == "" {
				return SentinelString
			}
			return r.RiskGroup
		}},
		{Key: "age", Number: func(r patientRow) float64 {
			if r.Age == 0 {
				return SentinelNumber
			}
			return r.Age
		}},
	}
	return New(columns,
		func(r patientRow) string { return r.Name },
		func(r patientRow) string { return r.Email },
	)
}

func names(rows []patientRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestApplySearchFiltersAcrossFields(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Ava Hart", Email: "ava.hart@example.com"},
		{Name: "Noah Berg", Email: "noah.berg@example.com"},
		{Name: "Mia Silva", Email: "mia.silva@example.com"},
	}

	got := view.Apply(rows, Query{Search: "BERG"})
	if !reflect.DeepEqual(names(got), []string{"Noah Berg"}) {
		t.Fatalf("expected only Noah Berg, got %v", names(got))
	}

	// Matching on email must also surface the row.
	got = view.Apply(rows, Query{Search: "mia.silva"})
	if !reflect.DeepEqual(names(got), []string{"Mia Silva"}) {
		t.Fatalf("expected only Mia Silva, got %v", names(got))
	}
}

func TestApplyEmptySearchKeepsEverything(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Ava Hart"},
		{Name: "Noah Berg"},
	}

	for _, search := range []string{"", "   "} {
		got := view.Apply(rows, Query{Search: search})
		if len(got) != len(rows) {
			t.Fatalf("search %q: expected %d rows, got %d", search, len(rows), len(got))
		}
	}
}

func TestApplySortStringAscendingCaseInsensitive(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "zoe Laine"},
		{Name: "Ava Hart"},
		{Name: "noah Berg"},
	}

	got := view.Apply(rows, Query{SortKey: "name", Direction: Ascending})
	want := []string{"Ava Hart", "noah Berg", "zoe Laine"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected %v, got %v", want, names(got))
	}
}

func TestApplySortIsStableForEqualKeys(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Ava Hart", RiskGroup: "high"},
		{Name: "Noah Berg", RiskGroup: "average"},
		{Name: "Mia Silva", RiskGroup: "high"},
		{Name: "Liam Okafor", RiskGroup: "high"},
	}

	got := view.Apply(rows, Query{SortKey: "riskGroup", Direction: Ascending})
	want := []string{"Noah Berg", "Ava Hart", "Mia Silva", "Liam Okafor"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected ties to keep input order %v, got %v", want, names(got))
	}
}

func TestApplySortPlacesMissingValuesLastAscending(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Unassigned One"},
		{Name: "Ava Hart", RiskGroup: "high"},
		{Name: "Unassigned Two"},
		{Name: "Noah Berg", RiskGroup: "control"},
	}

	got := view.Apply(rows, Query{SortKey: "riskGroup", Direction: Ascending})
	want := []string{"Noah Berg", "Ava Hart", "Unassigned One", "Unassigned Two"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected unassigned rows last, got %v", names(got))
	}

	// Numeric sentinel behaves the same way.
	rows = []patientRow{
		{Name: "No Age"},
		{Name: "Ava Hart", Age: 34},
		{Name: "Noah Berg", Age: 61},
	}
	got = view.Apply(rows, Query{SortKey: "age", Direction: Ascending})
	want = []string{"Ava Hart", "Noah Berg", "No Age"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected ageless row last, got %v", names(got))
	}
}

func TestApplySortDescending(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Ava Hart", Age: 34},
		{Name: "Noah Berg", Age: 61},
		{Name: "Mia Silva", Age: 22},
	}

	got := view.Apply(rows, Query{SortKey: "age", Direction: Descending})
	want := []string{"Noah Berg", "Ava Hart", "Mia Silva"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected descending age order %v, got %v", want, names(got))
	}
}

func TestApplyUnknownSortKeyKeepsFilteredOrder(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Zoe Laine"},
		{Name: "Ava Hart"},
	}

	got := view.Apply(rows, Query{SortKey: "bogus"})
	if !reflect.DeepEqual(names(got), []string{"Zoe Laine", "Ava Hart"}) {
		t.Fatalf("expected untouched order, got %v", names(got))
	}
}

func TestApplyCapTruncatesAfterSort(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Zoe Laine"},
		{Name: "Ava Hart"},
		{Name: "Noah Berg"},
	}

	got := view.Apply(rows, Query{SortKey: "name", Direction: Ascending, MaxRows: 2})
	want := []string{"Ava Hart", "Noah Berg"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("expected first two sorted rows, got %v", names(got))
	}

	// Cap larger than the result set changes nothing.
	got = view.Apply(rows, Query{SortKey: "name", Direction: Ascending, MaxRows: 10})
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Zoe Laine"},
		{Name: "Ava Hart"},
	}
	original := append([]patientRow(nil), rows...)

	_ = view.Apply(rows, Query{SortKey: "name", Direction: Ascending})
	if !reflect.DeepEqual(rows, original) {
		t.Fatalf("input slice was mutated: %v", rows)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	view := patientView()
	rows := []patientRow{
		{Name: "Zoe Laine", RiskGroup: "high"},
		{Name: "Ava Hart"},
		{Name: "Noah Berg", RiskGroup: "average"},
	}
	q := Query{Search: "a", SortKey: "riskGroup", Direction: Ascending, MaxRows: 2}

	once := view.Apply(rows, q)
	twice := view.Apply(once, q)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("re-applying the same query changed the result: %v vs %v", once, twice)
	}
}
