package datatypes

import (
	"github.com/VanDung-dev/HieraChain-Columnar/errs"
)

// TimeUnit is the unit of temporal quantities.
type TimeUnit int

const (
	Second TimeUnit = iota
	Millisecond
	Microsecond
	Nanosecond
)

var timeUnitNames = [...]string{"Second", "Millisecond", "Microsecond", "Nanosecond"}

func (u TimeUnit) String() string {
	if u < 0 || int(u) >= len(timeUnitNames) {
		return "TimeUnit(?)"
	}
	return timeUnitNames[u]
}

// Valid reports whether u is one of the four defined units.
func (u TimeUnit) Valid() bool { return u >= Second && u <= Nanosecond }

// ParseTimeUnit parses the name produced by TimeUnit.String.
func ParseTimeUnit(s string) (TimeUnit, error) {
	for i, name := range timeUnitNames {
		if s == name {
			return TimeUnit(i), nil
		}
	}
	return 0, errs.Parsef("unexpected time unit %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (u TimeUnit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, errs.Unsupportedf("invalid time unit %d", int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *TimeUnit) UnmarshalText(text []byte) error {
	v, err := ParseTimeUnit(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// UnionMode is the storage layout of a union.
type UnionMode int

const (
	// Sparse unions store one slot per row in every child.
	Sparse UnionMode = iota
	// Dense unions store only the used slots and map rows through offsets.
	Dense
)

func (m UnionMode) String() string {
	switch m {
	case Sparse:
		return "Sparse"
	case Dense:
		return "Dense"
	default:
		return "UnionMode(?)"
	}
}

// ParseUnionMode parses "Sparse" or "Dense".
func ParseUnionMode(s string) (UnionMode, error) {
	switch s {
	case "Sparse":
		return Sparse, nil
	case "Dense":
		return Dense, nil
	default:
		return 0, errs.Parsef("unexpected union mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m UnionMode) MarshalText() ([]byte, error) {
	if m != Sparse && m != Dense {
		return nil, errs.Unsupportedf("invalid union mode %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *UnionMode) UnmarshalText(text []byte) error {
	v, err := ParseUnionMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// IntervalUnit selects the physical layout of an interval.
type IntervalUnit int

const (
	// YearMonth intervals are stored as a number of months in an int32.
	YearMonth IntervalUnit = iota
	// DayTime intervals are stored as days and milliseconds.
	DayTime
	// MonthDayNano intervals are stored as months, days and nanoseconds.
	MonthDayNano
)

func (u IntervalUnit) String() string {
	switch u {
	case YearMonth:
		return "YearMonth"
	case DayTime:
		return "DayTime"
	case MonthDayNano:
		return "MonthDayNano"
	default:
		return "IntervalUnit(?)"
	}
}

// ParseIntervalUnit parses the name produced by IntervalUnit.String.
func ParseIntervalUnit(s string) (IntervalUnit, error) {
	switch s {
	case "YearMonth":
		return YearMonth, nil
	case "DayTime":
		return DayTime, nil
	case "MonthDayNano":
		return MonthDayNano, nil
	default:
		return 0, errs.Parsef("unexpected interval unit %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (u IntervalUnit) MarshalText() ([]byte, error) {
	if u < YearMonth || u > MonthDayNano {
		return nil, errs.Unsupportedf("invalid interval unit %d", int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *IntervalUnit) UnmarshalText(text []byte) error {
	v, err := ParseIntervalUnit(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}
