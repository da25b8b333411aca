package zones

import "testing"

func f(v float64) *float64 { return &v }

func TestClassifyAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"central keyword", "Shop 4, Gandhi Chowk, Gonda", ZoneCentral},
		{"north keyword", "near Balrampur Road crossing", ZoneNorth},
		{"east keyword", "Wazirganj market", ZoneEast},
		{"south keyword", "Colonelganj bypass", ZoneSouth},
		{"west keyword", "Mankapur tehsil office", ZoneWest},
		{"case insensitive", "KATRA BAZAR, GONDA", ZoneNorth},
		{"no match falls back to default", "Rampur village outskirts", DefaultZone},
		{"empty address falls back to default", "", DefaultZone},
		{"whitespace only falls back to default", "   ", DefaultZone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.address, nil, nil); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}

// An address matching two zones' keywords must resolve by table order, not
// last match.
func TestClassifyAddressPrecedence(t *testing.T) {
	// "central" (zone 1) appears before "east" (zone 3) in the table.
	got := Classify("central market on faizabad road east", nil, nil)
	if got != ZoneCentral {
		t.Errorf("Classify precedence = %q, want %q", got, ZoneCentral)
	}
}

func TestClassifyCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		want     string
	}{
		{"north of threshold", 27.20, 81.95, ZoneNorth},
		{"south of threshold", 27.05, 81.95, ZoneSouth},
		{"east of threshold", 27.13, 82.05, ZoneEast},
		{"west of threshold", 27.13, 81.85, ZoneWest},
		{"inside all thresholds is central", 27.13, 81.96, ZoneCentral},
		// North rule is evaluated before east: a north-east point is north.
		{"rule order precedence", 27.20, 82.05, ZoneNorth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify("", f(tt.lat), f(tt.lng)); got != tt.want {
				t.Errorf("Classify(%v, %v) = %q, want %q", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestClassifyAddressWinsOverCoordinates(t *testing.T) {
	// Coordinates say north, address says west; address match runs first.
	got := Classify("Bahraich Road depot", f(27.20), f(81.95))
	if got != ZoneWest {
		t.Errorf("Classify = %q, want %q", got, ZoneWest)
	}
}

func TestClassifyMalformedCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
	}{
		{"latitude out of range", 127.0, 81.95},
		{"longitude out of range", 27.13, 981.95},
		{"both out of range", -291.0, 477.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify("", f(tt.lat), f(tt.lng)); got != DefaultZone {
				t.Errorf("Classify(%v, %v) = %q, want default %q", tt.lat, tt.lng, got, DefaultZone)
			}
		})
	}
}

func TestClassifyNothingReturnsDefault(t *testing.T) {
	if got := Classify("", nil, nil); got != DefaultZone {
		t.Errorf("Classify(\"\", nil, nil) = %q, want %q", got, DefaultZone)
	}
	if got := Classify("", f(27.13), nil); got != DefaultZone {
		t.Errorf("Classify with missing longitude = %q, want %q", got, DefaultZone)
	}
}

func TestClassifyDeterminism(t *testing.T) {
	first := Classify("Wazirganj market", f(27.20), f(82.05))
	for i := 0; i < 5; i++ {
		if got := Classify("Wazirganj market", f(27.20), f(82.05)); got != first {
			t.Fatalf("Classify not deterministic: got %q then %q", first, got)
		}
	}
}

func TestIsZone(t *testing.T) {
	for _, name := range Names() {
		if !IsZone(name) {
			t.Errorf("IsZone(%q) = false, want true", name)
		}
	}
	if IsZone("Zone 9 - Nowhere") {
		t.Error("IsZone accepted an unknown zone name")
	}
}
