package weather

// Pattern identifies one deterministic weather-generation scenario for a
// day. Patterns form a fixed contiguous ordinal range; the names are
// display-only and never feed back into the simulator.
type Pattern int

const (
	Fine00 Pattern = iota
	Fine01
	Fine02
	Fine03
	Fine04
	Fine05
	Fine06
	Cloud00
	Cloud01
	Cloud02
	Rain00
	Rain01
	Rain02
	Rain03
	Rain04
	Rain05
	FineCloud00
	FineCloud01
	FineCloud02
	CloudFine00
	CloudFine01
	CloudFine02
	FineRain00
	FineRain01
	FineRain02
	FineRain03
	CloudRain00
	CloudRain01
	CloudRain02
	RainCloud00
	RainCloud01
	RainCloud02
	Commun00
	EventDay00
)

// FirstPattern and MaxPattern bound the ordinal scan; PatternCount is the
// size of the space.
const (
	FirstPattern = Fine00
	MaxPattern   = EventDay00
	PatternCount = int(MaxPattern) + 1
)

var patternNames = [PatternCount]string{
	Fine00:      "Fine00",
	Fine01:      "Fine01",
	Fine02:      "Fine02",
	Fine03:      "Fine03",
	Fine04:      "Fine04",
	Fine05:      "Fine05",
	Fine06:      "Fine06",
	Cloud00:     "Cloud00",
	Cloud01:     "Cloud01",
	Cloud02:     "Cloud02",
	Rain00:      "Rain00",
	Rain01:      "Rain01",
	Rain02:      "Rain02",
	Rain03:      "Rain03",
	Rain04:      "Rain04",
	Rain05:      "Rain05",
	FineCloud00: "FineCloud00",
	FineCloud01: "FineCloud01",
	FineCloud02: "FineCloud02",
	CloudFine00: "CloudFine00",
	CloudFine01: "CloudFine01",
	CloudFine02: "CloudFine02",
	FineRain00:  "FineRain00",
	FineRain01:  "FineRain01",
	FineRain02:  "FineRain02",
	FineRain03:  "FineRain03",
	CloudRain00: "CloudRain00",
	CloudRain01: "CloudRain01",
	CloudRain02: "CloudRain02",
	RainCloud00: "RainCloud00",
	RainCloud01: "RainCloud01",
	RainCloud02: "RainCloud02",
	Commun00:    "Commun00",
	EventDay00:  "EventDay00",
}

func (p Pattern) String() string {
	if !p.Valid() {
		return "Unknown"
	}
	return patternNames[p]
}

// Valid reports whether p lies inside the fixed pattern space.
func (p Pattern) Valid() bool {
	return p >= FirstPattern && p <= MaxPattern
}

// RainbowPatterns maps the clock hour a rainbow was sighted to the single
// pattern that produces one at that hour. Hours absent from the table
// cannot produce a rainbow, so a sighting at such an hour matches no
// pattern at all.
var RainbowPatterns = map[int]Pattern{
	10: CloudFine00,
	12: CloudFine02,
	13: CloudFine01,
	14: FineRain00,
	15: FineRain01,
	16: FineRain03,
}
