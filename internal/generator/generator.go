package generator

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/smartcity/hotspots/internal/domain"
	"github.com/smartcity/hotspots/pkg/utils"
)

// Config controls the synthetic sensor feed
type Config struct {
	Days      int
	Start     time.Time
	Seed      int64
	Locations []domain.Location
}

// DefaultConfig covers one week of hourly data from 2024-02-01
func DefaultConfig() Config {
	return Config{
		Days:      7,
		Start:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Seed:      42,
		Locations: domain.AllLocations(),
	}
}

// Generator produces realistic hourly traffic patterns for Bengaluru
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a generator; identical configs produce identical observations
func New(cfg Config) *Generator {
	if len(cfg.Locations) == 0 {
		cfg.Locations = domain.AllLocations()
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate is a shortcut for New(cfg).Observations()
func Generate(cfg Config) []domain.Observation {
	return New(cfg).Observations()
}

// Observations returns one reading per location per hour
func (g *Generator) Observations() []domain.Observation {
	hours := 24 * g.cfg.Days
	if hours <= 0 {
		return nil
	}
	obs := make([]domain.Observation, 0, hours*len(g.cfg.Locations))

	for i := 0; i < hours; i++ {
		ts := g.cfg.Start.Add(time.Duration(i) * time.Hour)
		hour := ts.Hour()
		dayOfWeek := domain.WeekdayIndex(ts.Weekday())

		for _, loc := range g.cfg.Locations {
			volume := g.baseVolume(loc) * g.multiplier(hour, dayOfWeek)

			obs = append(obs, domain.Observation{
				Timestamp:     ts,
				Location:      loc,
				TrafficVolume: int(volume),
				AvgSpeed:      utils.RoundTo(math.Max(5, 60-volume/200), 1),
				SignalTiming:  g.signalTiming(volume),
				Accidents:     g.accident(),
				RoadCondition: g.intRange(3, 9),
				Hour:          hour,
				DayOfWeek:     dayOfWeek,
			})
		}
	}
	return obs
}

// baseVolume is higher for junctions and arterial roads
func (g *Generator) baseVolume(loc domain.Location) float64 {
	name := string(loc)
	if strings.Contains(name, "Junction") || strings.Contains(name, "Road") {
		return float64(g.intRange(800, 1200))
	}
	return float64(g.intRange(500, 900))
}

// multiplier scales the base volume by time patterns
func (g *Generator) multiplier(hour, dayOfWeek int) float64 {
	weekday := domain.IsWeekday(dayOfWeek)
	switch {
	case weekday && hour >= 8 && hour <= 10: // Morning rush
		return g.uniform(1.4, 1.8)
	case weekday && hour >= 17 && hour <= 20: // Evening rush
		return g.uniform(1.5, 1.9)
	case !weekday && hour >= 10 && hour <= 20: // Weekend activity
		return g.uniform(1.2, 1.6)
	case !weekday:
		return g.uniform(0.5, 0.9)
	case hour <= 5: // Late night
		return g.uniform(0.1, 0.4)
	default:
		return g.uniform(0.7, 1.3)
	}
}

// signalTiming returns a cycle length in seconds that grows with volume
func (g *Generator) signalTiming(volume float64) int {
	switch {
	case volume > 1500:
		return g.intRange(90, 120)
	case volume > 1000:
		return g.intRange(60, 90)
	default:
		return g.intRange(30, 60)
	}
}

// accident is a rare event, about one in twenty readings
func (g *Generator) accident() int {
	if g.rng.Float64() < 0.05 {
		return 1
	}
	return 0
}

// intRange is inclusive on both ends
func (g *Generator) intRange(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return utils.Lerp(lo, hi, g.rng.Float64())
}
