package weather

// Hemisphere selects which seasonal calendar the simulator runs.
type Hemisphere int

const (
	Northern Hemisphere = iota
	Southern
)

var hemisphereNames = [...]string{
	Northern: "Northern",
	Southern: "Southern",
}

func (h Hemisphere) String() string {
	if h < Northern || h > Southern {
		return "Unknown"
	}
	return hemisphereNames[h]
}

// Valid reports whether h is a defined hemisphere.
func (h Hemisphere) Valid() bool {
	return h == Northern || h == Southern
}

// DayType is the user's classification of an observed day. DayNoData and
// DayNone both impose no positive structural constraint; DayNone
// additionally rules out heavy-shower patterns, since a heavy shower
// cannot be missed by anyone watching the sky.
type DayType int

const (
	DayNoData DayType = iota
	DayNone
	DayShower
	DayRainbow
	DayAurora
)

var dayTypeNames = [...]string{
	DayNoData:  "NoData",
	DayNone:    "None",
	DayShower:  "Shower",
	DayRainbow: "Rainbow",
	DayAurora:  "Aurora",
}

func (d DayType) String() string {
	if d < DayNoData || d > DayAurora {
		return "Unknown"
	}
	return dayTypeNames[d]
}

// Valid reports whether d is a defined day type.
func (d DayType) Valid() bool {
	return d >= DayNoData && d <= DayAurora
}

// ShowerType refines DayShower: whether the observer is sure the meteor
// shower was the light or the heavy variety.
type ShowerType int

const (
	ShowerNotSure ShowerType = iota
	ShowerLight
	ShowerHeavy
)

var showerTypeNames = [...]string{
	ShowerNotSure: "NotSure",
	ShowerLight:   "Light",
	ShowerHeavy:   "Heavy",
}

func (s ShowerType) String() string {
	if s < ShowerNotSure || s > ShowerHeavy {
		return "Unknown"
	}
	return showerTypeNames[s]
}

// Valid reports whether s is a defined shower type.
func (s ShowerType) Valid() bool {
	return s >= ShowerNotSure && s <= ShowerHeavy
}
