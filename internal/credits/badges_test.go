package credits

import "testing"

func TestNewlyUnlocked(t *testing.T) {
	tests := []struct {
		name         string
		held         map[string]bool
		reports      int
		totalCredits int
		wantKeys     []string
	}{
		{
			name:     "first report unlocks first_report",
			held:     map[string]bool{},
			reports:  1,
			wantKeys: []string{"first_report"},
		},
		{
			name:         "credit threshold unlocks century_club",
			held:         map[string]bool{"first_report": true},
			reports:      3,
			totalCredits: 120,
			wantKeys:     []string{"century_club"},
		},
		{
			name:         "multiple unlocks in catalog order",
			held:         map[string]bool{},
			reports:      12,
			totalCredits: 150,
			wantKeys:     []string{"first_report", "regular_reporter", "century_club"},
		},
		{
			name:         "nothing below thresholds",
			held:         map[string]bool{"first_report": true},
			reports:      5,
			totalCredits: 60,
			wantKeys:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewlyUnlocked(tt.held, tt.reports, tt.totalCredits)
			if len(got) != len(tt.wantKeys) {
				t.Fatalf("unlocked %d badges, want %d", len(got), len(tt.wantKeys))
			}
			for i, def := range got {
				if def.Key != tt.wantKeys[i] {
					t.Errorf("unlocked[%d] = %s, want %s", i, def.Key, tt.wantKeys[i])
				}
			}
		})
	}
}

// A second evaluation without any counter change must report nothing new.
func TestNewlyUnlockedIdempotent(t *testing.T) {
	held := map[string]bool{}
	first := NewlyUnlocked(held, 10, 110)
	if len(first) == 0 {
		t.Fatal("expected unlocks on the first evaluation")
	}
	for _, def := range first {
		held[def.Key] = true
	}

	second := NewlyUnlocked(held, 10, 110)
	if len(second) != 0 {
		t.Errorf("second evaluation unlocked %d badges, want 0", len(second))
	}
}

func TestProgress(t *testing.T) {
	progress := Progress(map[string]bool{"first_report": true}, 5, 50)

	byKey := map[string]BadgeProgress{}
	for _, p := range progress {
		if p.Key == "first_report" {
			t.Error("held badge reported in progress projection")
		}
		byKey[p.Key] = p
	}

	if got := byKey["regular_reporter"].Progress; got != 50 {
		t.Errorf("regular_reporter progress = %d, want 50", got)
	}
	if got := byKey["century_club"].Progress; got != 50 {
		t.Errorf("century_club progress = %d, want 50", got)
	}
	if got := byKey["credit_champion"].Progress; got != 10 {
		t.Errorf("credit_champion progress = %d, want 10", got)
	}
}

func TestProgressCapsAtHundred(t *testing.T) {
	progress := Progress(map[string]bool{}, 200, 9999)
	for _, p := range progress {
		if p.Progress > 100 {
			t.Errorf("%s progress = %d, want <= 100", p.Key, p.Progress)
		}
	}
}

func TestCatalogKeysUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Catalog {
		if seen[def.Key] {
			t.Errorf("duplicate badge key %s", def.Key)
		}
		seen[def.Key] = true
	}
}
