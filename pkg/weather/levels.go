package weather

// SnowLevel is the day's snowfall coverage.
type SnowLevel int

const (
	SnowNone SnowLevel = iota
	SnowLow
	SnowFull
)

var snowLevelNames = [...]string{
	SnowNone: "None",
	SnowLow:  "Low",
	SnowFull: "Full",
}

func (s SnowLevel) String() string {
	if s < SnowNone || s > SnowFull {
		return "Unknown"
	}
	return snowLevelNames[s]
}

// CloudLevel is the decorative cloud formation the simulator renders for
// the day.
type CloudLevel int

const (
	CloudNone CloudLevel = iota
	CloudCumulonimbus
	CloudBillow
	CloudThin
)

var cloudLevelNames = [...]string{
	CloudNone:         "None",
	CloudCumulonimbus: "Cumulonimbus",
	CloudBillow:       "Billow",
	CloudThin:         "Thin",
}

func (c CloudLevel) String() string {
	if c < CloudNone || c > CloudThin {
		return "Unknown"
	}
	return cloudLevelNames[c]
}

// FogLevel is the morning fog the simulator can render. FogWater only
// appears when the seeded water-fog check also passes for the date.
type FogLevel int

const (
	FogNone FogLevel = iota
	FogHeavy
	FogWater
)

var fogLevelNames = [...]string{
	FogNone:  "None",
	FogHeavy: "Heavy",
	FogWater: "Water",
}

func (f FogLevel) String() string {
	if f < FogNone || f > FogWater {
		return "Unknown"
	}
	return fogLevelNames[f]
}

// RainbowInfo reports rainbow activity for one day. Count is 0 for none,
// 1 for a single rainbow, 2 for a double; Hour is the clock hour the
// rainbow appears and is meaningless when Count is 0.
type RainbowInfo struct {
	Count int
	Hour  int
}
