package weather

// The in-game day runs from 5:00 through 4:59 the following calendar
// morning, so time ranges recorded by an observer can cross midnight.
// Linear hours reorder the 24 clock hours so the window is a single
// contiguous increasing range: clock hour 5 is linear 0, clock hour 4 is
// linear 23. The mapping is a fixed game constant, kept as an explicit
// table rather than arithmetic.

// DayStartHour is the clock hour the in-game day begins.
const DayStartHour = 5

var toLinear = [24]int{
	0:  19,
	1:  20,
	2:  21,
	3:  22,
	4:  23,
	5:  0,
	6:  1,
	7:  2,
	8:  3,
	9:  4,
	10: 5,
	11: 6,
	12: 7,
	13: 8,
	14: 9,
	15: 10,
	16: 11,
	17: 12,
	18: 13,
	19: 14,
	20: 15,
	21: 16,
	22: 17,
	23: 18,
}

var fromLinear = [24]int{
	0:  5,
	1:  6,
	2:  7,
	3:  8,
	4:  9,
	5:  10,
	6:  11,
	7:  12,
	8:  13,
	9:  14,
	10: 15,
	11: 16,
	12: 17,
	13: 18,
	14: 19,
	15: 20,
	16: 21,
	17: 22,
	18: 23,
	19: 0,
	20: 1,
	21: 2,
	22: 3,
	23: 4,
}

// ToLinearHour converts a clock hour (0-23) to its linear position.
func ToLinearHour(hour int) int {
	return toLinear[hour]
}

// FromLinearHour converts a linear position (0-23) back to a clock hour.
func FromLinearHour(linear int) int {
	return fromLinear[linear]
}
