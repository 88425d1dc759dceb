package main

import (
	"strings"
	"testing"
)

func TestParseSensorID(t *testing.T) {
	tests := []struct {
		arg         string
		want        int64
		expectError bool
	}{
		{"7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"seven", 0, true},
	}

	for _, tt := range tests {
		got, err := parseSensorID(tt.arg)
		if (err != nil) != tt.expectError {
			t.Errorf("parseSensorID(%q) error = %v, expectError %v", tt.arg, err, tt.expectError)
		}
		if got != tt.want {
			t.Errorf("parseSensorID(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestKindListNamesEveryExport(t *testing.T) {
	list := kindList()
	for _, kind := range []string{"sensors", "readings", "locations", "technicians", "maintenance", "sensor-types"} {
		if !strings.Contains(list, kind) {
			t.Errorf("kind list %q misses %q", list, kind)
		}
	}
}
