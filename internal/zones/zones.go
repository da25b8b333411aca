// Package zones maps addresses and GPS coordinates to the fixed set of
// municipal zones used to route reports to workers and officers. The zone
// names are stable keys: worker assignments and report filtering match on
// them verbatim.
package zones

import "strings"

// Zone is one named region of the municipality.
type Zone struct {
	Name     string
	Keywords []string
}

// Zone names. These are the exact strings stored on reports and worker
// assignments.
const (
	ZoneCentral = "Zone 1 - Central Gonda"
	ZoneNorth   = "Zone 2 - North Gonda"
	ZoneEast    = "Zone 3 - East Gonda"
	ZoneSouth   = "Zone 4 - South Gonda"
	ZoneWest    = "Zone 5 - West Gonda"

	// DefaultZone is returned when neither address nor coordinates match.
	DefaultZone = ZoneCentral
)

// All is the ordered zone table, loaded once at process start. Keyword
// matching walks this slice in order, so earlier zones win ties.
var All = []Zone{
	{
		Name:     ZoneCentral,
		Keywords: []string{"central", "gandhi chowk", "station road", "civil lines", "ghanta ghar"},
	},
	{
		Name:     ZoneNorth,
		Keywords: []string{"north", "uttar", "balrampur road", "itiathok", "katra bazar"},
	},
	{
		Name:     ZoneEast,
		Keywords: []string{"east", "purvi", "faizabad road", "wazirganj", "nawabganj"},
	},
	{
		Name:     ZoneSouth,
		Keywords: []string{"south", "dakshin", "lucknow road", "colonelganj", "tarabganj"},
	},
	{
		Name:     ZoneWest,
		Keywords: []string{"west", "paschim", "bahraich road", "mankapur", "khargupur"},
	},
}

// Coordinate thresholds around the Gonda municipal center (27.13 N, 81.96 E).
// Heuristic, not authoritative boundaries.
const (
	latNorthAbove = 27.15
	latSouthBelow = 27.10
	lngEastAbove  = 82.00
	lngWestBelow  = 81.90
)

type coordRule struct {
	zone    string
	matches func(lat, lng float64) bool
}

// coordRules are evaluated in order; first match wins.
var coordRules = []coordRule{
	{ZoneNorth, func(lat, lng float64) bool { return lat > latNorthAbove }},
	{ZoneSouth, func(lat, lng float64) bool { return lat < latSouthBelow }},
	{ZoneEast, func(lat, lng float64) bool { return lng > lngEastAbove }},
	{ZoneWest, func(lat, lng float64) bool { return lng < lngWestBelow }},
}

// Classify resolves a report to a zone name. The address, when present, is
// matched against each zone's keywords in table order; otherwise the
// coordinate threshold rules apply. Classify always returns a zone:
// unmatchable input falls back to DefaultZone.
func Classify(address string, lat, lng *float64) string {
	if addr := strings.ToLower(strings.TrimSpace(address)); addr != "" {
		for _, z := range All {
			for _, kw := range z.Keywords {
				if strings.Contains(addr, kw) {
					return z.Name
				}
			}
		}
	}

	if lat != nil && lng != nil && ValidCoordinates(*lat, *lng) {
		for _, rule := range coordRules {
			if rule.matches(*lat, *lng) {
				return rule.zone
			}
		}
	}

	return DefaultZone
}

// ValidCoordinates reports whether a (lat, lng) pair is a plausible GPS
// reading. Out-of-range values are treated as absent by Classify.
func ValidCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// IsZone reports whether name is one of the configured zone names.
func IsZone(name string) bool {
	for _, z := range All {
		if z.Name == name {
			return true
		}
	}
	return false
}

// Names returns the configured zone names in table order.
func Names() []string {
	names := make([]string, len(All))
	for i, z := range All {
		names[i] = z.Name
	}
	return names
}
