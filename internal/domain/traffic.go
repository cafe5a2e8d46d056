package domain

import (
	"fmt"
	"math"
	"time"
)

// Location is one of the monitored junctions or corridors
type Location string

const (
	SilkBoardJunction Location = "Silk Board Junction"
	ElectronicCity    Location = "Electronic City"
	Whitefield        Location = "Whitefield"
	Marathahalli      Location = "Marathahalli"
	Hebbal            Location = "Hebbal"
	MGRoad            Location = "MG Road"
	Koramangala       Location = "Koramangala"
	HSRLayout         Location = "HSR Layout"
	Indiranagar       Location = "Indiranagar"
	Jayanagar         Location = "Jayanagar"
)

// AllLocations returns the closed set of monitored locations in sensor order
func AllLocations() []Location {
	return []Location{
		SilkBoardJunction, ElectronicCity, Whitefield, Marathahalli, Hebbal,
		MGRoad, Koramangala, HSRLayout, Indiranagar, Jayanagar,
	}
}

// Period is a coarse part of the day
type Period string

const (
	Night     Period = "Night"
	Morning   Period = "Morning"
	Afternoon Period = "Afternoon"
	Evening   Period = "Evening"
)

// AllPeriods returns the periods in chronological order
func AllPeriods() []Period {
	return []Period{Night, Morning, Afternoon, Evening}
}

// PeriodForHour maps an hour of day onto [0,6) Night, [6,12) Morning,
// [12,18) Afternoon and [18,24) Evening.
func PeriodForHour(hour int) Period {
	switch {
	case hour < 6:
		return Night
	case hour < 12:
		return Morning
	case hour < 18:
		return Afternoon
	default:
		return Evening
	}
}

// Index returns the chronological position of the period
func (p Period) Index() int {
	for i, candidate := range AllPeriods() {
		if candidate == p {
			return i
		}
	}
	return len(AllPeriods())
}

// DayNames maps DayOfWeek (Monday = 0) to a display name
var DayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// IsWeekday reports whether a Monday-based day index falls on Monday to Friday
func IsWeekday(dayOfWeek int) bool {
	return dayOfWeek < 5
}

// WeekdayIndex converts a time.Weekday (Sunday = 0) to a Monday-based index
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Observation is a single hourly sensor reading for one location
type Observation struct {
	Timestamp     time.Time `json:"timestamp"`
	Location      Location  `json:"location"`
	TrafficVolume int       `json:"traffic_volume"`
	AvgSpeed      float64   `json:"avg_speed_kmh"`
	SignalTiming  int       `json:"signal_timing_s"`
	Accidents     int       `json:"accidents"`
	RoadCondition int       `json:"road_condition"`
	Hour          int       `json:"hour"`
	DayOfWeek     int       `json:"day_of_week"`
}

// Period returns the part of day the observation falls into
func (o Observation) Period() Period {
	return PeriodForHour(o.Hour)
}

// Validate checks field ranges. Signal timing is not rejected here:
// a zero timing is reported by the efficiency calculation instead.
func (o Observation) Validate() error {
	switch {
	case o.Location == "":
		return &DataError{Field: "location", Reason: "empty"}
	case o.TrafficVolume < 0:
		return &DataError{Location: o.Location, Field: "traffic_volume", Reason: fmt.Sprintf("negative value %d", o.TrafficVolume)}
	case math.IsNaN(o.AvgSpeed) || math.IsInf(o.AvgSpeed, 0):
		return &DataError{Location: o.Location, Field: "avg_speed", Reason: fmt.Sprintf("non-finite value %v", o.AvgSpeed)}
	case o.AvgSpeed <= 0:
		return &DataError{Location: o.Location, Field: "avg_speed", Reason: fmt.Sprintf("non-positive value %.1f", o.AvgSpeed)}
	case o.SignalTiming < 0:
		return &DataError{Location: o.Location, Field: "signal_timing", Reason: fmt.Sprintf("negative value %d", o.SignalTiming)}
	case o.Accidents != 0 && o.Accidents != 1:
		return &DataError{Location: o.Location, Field: "accidents", Reason: fmt.Sprintf("expected 0 or 1, got %d", o.Accidents)}
	case o.RoadCondition < 0 || o.RoadCondition > 10:
		return &DataError{Location: o.Location, Field: "road_condition", Reason: fmt.Sprintf("out of range 0-10: %d", o.RoadCondition)}
	case o.Hour < 0 || o.Hour > 23:
		return &DataError{Location: o.Location, Field: "hour", Reason: fmt.Sprintf("out of range 0-23: %d", o.Hour)}
	case o.DayOfWeek < 0 || o.DayOfWeek > 6:
		return &DataError{Location: o.Location, Field: "day_of_week", Reason: fmt.Sprintf("out of range 0-6: %d", o.DayOfWeek)}
	}
	return nil
}

