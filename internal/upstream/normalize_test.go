package upstream

import (
	"testing"

	"github.com/zivahealth/admin-console/internal/domain"
)

func TestNormalizeHealthProfilePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantID  int64
		wantNil bool
		wantErr bool
	}{
		{name: "empty body", body: "", wantNil: true},
		{name: "whitespace", body: "  \n ", wantNil: true},
		{name: "json null", body: "null", wantNil: true},
		{name: "empty array", body: "[]", wantNil: true},
		{name: "array with one", body: `[{"id": 7, "profileId": 3}]`, wantID: 7},
		{name: "array keeps first", body: `[{"id": 7}, {"id": 8}]`, wantID: 7},
		{name: "bare object", body: `{"id": 9, "profileId": 3}`, wantID: 9},
		{name: "scalar payload", body: `42`, wantErr: true},
		{name: "malformed array", body: `[{"id": }]`, wantErr: true},
		{name: "malformed object", body: `{"id": }`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeHealthProfilePayload([]byte(tc.body))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.wantNil {
				if got != nil {
					t.Fatalf("expected nil profile, got %+v", got)
				}
				return
			}
			if got == nil || got.ID != tc.wantID {
				t.Fatalf("expected profile %d, got %+v", tc.wantID, got)
			}
		})
	}
}

func TestNormalizeHealthProfilePayloadKeepsRiskGroup(t *testing.T) {
	got, err := NormalizeHealthProfilePayload([]byte(`[{"id": 1, "riskGroup": "high"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RiskGroup == nil || *got.RiskGroup != domain.RiskGroupHigh {
		t.Fatalf("expected high risk group, got %+v", got.RiskGroup)
	}

	got, err = NormalizeHealthProfilePayload([]byte(`{"id": 1, "riskGroup": null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RiskGroup != nil {
		t.Fatalf("expected nil risk group, got %+v", got.RiskGroup)
	}
}
