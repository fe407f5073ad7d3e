package seed

import (
	"reflect"
	"testing"
)

func TestGenerateIsDeterministicForASeed(t *testing.T) {
	cfg := DefaultConfig()

	first := Generate(cfg)
	second := Generate(cfg)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical datasets for the same seed")
	}
	if len(first.Profiles) != cfg.NumUsers {
		t.Fatalf("expected %d profiles, got %d", cfg.NumUsers, len(first.Profiles))
	}
}

func TestGenerateLinksSatelliteRecordsToProfiles(t *testing.T) {
	ds := Generate(DefaultConfig())

	ids := make(map[int64]struct{}, len(ds.Profiles))
	for _, p := range ds.Profiles {
		ids[p.ID] = struct{}{}
	}

	for _, hp := range ds.HealthProfiles {
		if _, ok := ids[hp.ProfileID]; !ok {
			t.Fatalf("health profile %d references unknown profile %d", hp.ID, hp.ProfileID)
		}
	}
	for _, ev := range ds.Events {
		if _, ok := ids[ev.ProfileID]; !ok {
			t.Fatalf("event %d references unknown profile %d", ev.ID, ev.ProfileID)
		}
	}
}
