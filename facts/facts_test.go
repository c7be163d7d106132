package facts

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDateUnmarshalYAML(t *testing.T) {
	want := time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"calendar date", "last_verified: 2025-11-09", false},
		{"quoted calendar date", `last_verified: "2025-11-09"`, false},
		{"rfc3339 timestamp", "last_verified: 2025-11-09T00:00:00Z", false},
		{"not a date", "last_verified: soon", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				LastVerified Date `yaml:"last_verified"`
			}
			err := yaml.Unmarshal([]byte(tt.input), &doc)
			if tt.wantErr {
				if err == nil {
					t.Error("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if !doc.LastVerified.Equal(want) {
				t.Errorf("date = %v, want %v", doc.LastVerified.Time, want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(time.Date(2025, time.November, 9, 0, 0, 0, 0, time.UTC))

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"2025-11-09"` {
		t.Errorf("marshaled date = %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back.Time, d.Time)
	}
}
