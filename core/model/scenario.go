package model

import "fmt"

// DayType classifies a prediction scenario and selects which historical
// observations are considered analogous to it.
type DayType int

const (
	// DayNormal matches observations from the same day of week and hour.
	DayNormal DayType = iota
	// DayHoliday draws from Friday-evening and weekend patterns regardless
	// of the requested day of week.
	DayHoliday
	// DaySpecialEvent blends the normal and holiday subsets 50/50.
	DaySpecialEvent
)

// String returns the wire name of the day type.
func (d DayType) String() string {
	switch d {
	case DayNormal:
		return "normal"
	case DayHoliday:
		return "holiday"
	case DaySpecialEvent:
		return "special_event"
	default:
		return fmt.Sprintf("DayType(%d)", int(d))
	}
}

// ParseDayType converts a wire name into a DayType.
func ParseDayType(s string) (DayType, error) {
	switch s {
	case "normal":
		return DayNormal, nil
	case "holiday":
		return DayHoliday, nil
	case "special_event":
		return DaySpecialEvent, nil
	default:
		return 0, fmt.Errorf("unknown day type %q", s)
	}
}

// Scenario is one prediction request. It is constructed per request and
// never persisted.
type Scenario struct {
	DayOfWeek int // Monday=0 .. Sunday=6
	Hour      int // 0-23
	DayType   DayType
}

// Validate checks the scenario parameters against their allowed ranges.
func (s Scenario) Validate() error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week %d out of range [0,6]", s.DayOfWeek)
	}
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("hour %d out of range [0,23]", s.Hour)
	}
	switch s.DayType {
	case DayNormal, DayHoliday, DaySpecialEvent:
		return nil
	default:
		return fmt.Errorf("unknown day type %q", s.DayType)
	}
}
