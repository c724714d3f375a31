package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Time units. The simulation clock counts logical minutes.
const (
	Minute int64 = 1
	Hour         = 60 * Minute
	Day          = 24 * Hour
)

// cargoFieldSuffix names the per-type configuration fields in error messages.
var cargoFieldSuffix = [numCargoTypes]string{
	CargoBulk:      "Bulk",
	CargoLiquid:    "Liquid",
	CargoContainer: "Container",
}

// maxTimeMagnitude bounds jitter endpoints, planned arrivals and base unload
// times, so arrival, unload and finish arithmetic always fits in int64.
const maxTimeMagnitude = int64(1) << 40

// MaxClock is the latest clock value Advance will reach. It leaves room for
// the longest possible unload to start at MaxClock without overflow.
const MaxClock = math.MaxInt64 - 4*maxTimeMagnitude

// ShipPlan is one entry of the arrival schedule.
type ShipPlan struct {
	Name    string    `json:"name" yaml:"name"`
	Type    CargoType `json:"type" yaml:"type"`
	Arrival int64     `json:"arrival" yaml:"arrival"` // planned arrival, minutes from t=0
	Weight  int64     `json:"weight" yaml:"weight"`   // kilograms
}

// Config holds every parameter of one simulation run. It is immutable once
// installed into a Port; reconfiguring replaces it wholesale.
type Config struct {
	TotalDuration int64 `json:"totalDuration" yaml:"total_duration"` // informational horizon (minutes)
	Step          int64 `json:"step" yaml:"step"`                    // nominal tick size; fines accrue Step minutes per Advance

	CranesBulk      int `json:"cranesBulk" yaml:"cranes_bulk"`
	CranesLiquid    int `json:"cranesLiquid" yaml:"cranes_liquid"`
	CranesContainer int `json:"cranesContainer" yaml:"cranes_container"`

	ArrivalJitterMin int64 `json:"arrivalJitterMin" yaml:"arrival_jitter_min"` // may be negative (early arrival)
	ArrivalJitterMax int64 `json:"arrivalJitterMax" yaml:"arrival_jitter_max"`
	UnloadExtraMin   int64 `json:"unloadExtraMin" yaml:"unload_extra_min"`
	UnloadExtraMax   int64 `json:"unloadExtraMax" yaml:"unload_extra_max"`

	// Unload rates in minutes per kilogram.
	RateBulk      float64 `json:"rateBulk" yaml:"rate_bulk"`
	RateLiquid    float64 `json:"rateLiquid" yaml:"rate_liquid"`
	RateContainer float64 `json:"rateContainer" yaml:"rate_container"`

	FinePerMinute float64 `json:"finePerMinute" yaml:"fine_per_minute"`

	AutoStart bool  `json:"autoStart" yaml:"auto_start"` // hint for UI clients; ignored by the engine
	Seed      int64 `json:"seed" yaml:"seed"`

	Schedule []ShipPlan `json:"schedule" yaml:"schedule"`
}

// DefaultConfig returns the stock port: five cranes, a twelve-ship schedule
// over five and a half days, and a 2000-per-day late fine.
func DefaultConfig() Config {
	return Config{
		TotalDuration:    30 * Day,
		Step:             15,
		CranesBulk:       2,
		CranesLiquid:     2,
		CranesContainer:  1,
		ArrivalJitterMin: -2 * Day,
		ArrivalJitterMax: 9 * Day,
		UnloadExtraMin:   0,
		UnloadExtraMax:   12 * Hour,
		RateBulk:         0.02,
		RateLiquid:       0.015,
		RateContainer:    0.03,
		FinePerMinute:    2000.0 / float64(Day),
		Seed:             42,
		Schedule: []ShipPlan{
			{"Aurora", CargoBulk, 1, 450000},
			{"Poseidon", CargoLiquid, 720, 600000},
			{"Mercury", CargoContainer, 1440, 220000},
			{"Orion", CargoBulk, 2160, 520000},
			{"Neptune", CargoLiquid, 2880, 780000},
			{"Vega", CargoContainer, 3600, 310000},
			{"Sirius", CargoBulk, 4320, 480000},
			{"Andromeda", CargoLiquid, 5040, 640000},
			{"Titan", CargoContainer, 5760, 260000},
			{"Altair", CargoBulk, 6480, 570000},
			{"Nereid", CargoLiquid, 7200, 700000},
			{"Callisto", CargoContainer, 7920, 280000},
		},
	}
}

// CraneCount returns the configured number of cranes serving cargo type t.
func (c *Config) CraneCount(t CargoType) int {
	switch t {
	case CargoBulk:
		return c.CranesBulk
	case CargoLiquid:
		return c.CranesLiquid
	case CargoContainer:
		return c.CranesContainer
	}
	return 0
}

// Rate returns the unload rate (minutes per kilogram) for cargo type t.
func (c *Config) Rate(t CargoType) float64 {
	switch t {
	case CargoBulk:
		return c.RateBulk
	case CargoLiquid:
		return c.RateLiquid
	case CargoContainer:
		return c.RateContainer
	}
	return 0
}

// Validate checks the configuration without modifying it.
// Inverted jitter ranges are not an error; Normalize swaps them.
func (c *Config) Validate() error {
	if c.Step <= 0 {
		return configErrorf("step", "must be positive, got %d", c.Step)
	}
	if c.TotalDuration < 0 {
		return configErrorf("totalDuration", "must be non-negative, got %d", c.TotalDuration)
	}
	for _, t := range CargoTypes() {
		if n := c.CraneCount(t); n < 0 {
			return configErrorf("cranes"+cargoFieldSuffix[t], "must be non-negative, got %d", n)
		}
		if r := c.Rate(t); r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return configErrorf("rate"+cargoFieldSuffix[t], "must be a finite non-negative number, got %v", r)
		}
	}
	jitters := []struct {
		field string
		value int64
	}{
		{"arrivalJitterMin", c.ArrivalJitterMin},
		{"arrivalJitterMax", c.ArrivalJitterMax},
		{"unloadExtraMin", c.UnloadExtraMin},
		{"unloadExtraMax", c.UnloadExtraMax},
	}
	for _, j := range jitters {
		if j.value > maxTimeMagnitude || j.value < -maxTimeMagnitude {
			return configErrorf(j.field, "magnitude must not exceed %d, got %d", maxTimeMagnitude, j.value)
		}
	}
	if c.FinePerMinute < 0 || math.IsNaN(c.FinePerMinute) || math.IsInf(c.FinePerMinute, 0) {
		return configErrorf("finePerMinute", "must be a finite non-negative number, got %v", c.FinePerMinute)
	}
	for i, plan := range c.Schedule {
		field := fmt.Sprintf("schedule[%d]", i)
		if plan.Name == "" {
			return configErrorf(field, "name is required")
		}
		if !plan.Type.Valid() {
			return configErrorf(field, "ship %s: unknown cargo type %d", plan.Name, int(plan.Type))
		}
		if plan.Weight < 0 {
			return configErrorf(field, "ship %s: weight must be non-negative, got %d", plan.Name, plan.Weight)
		}
		if plan.Arrival > maxTimeMagnitude || plan.Arrival < -maxTimeMagnitude {
			return configErrorf(field, "ship %s: arrival magnitude must not exceed %d, got %d", plan.Name, maxTimeMagnitude, plan.Arrival)
		}
		if base := float64(plan.Weight) * c.Rate(plan.Type); base > float64(maxTimeMagnitude) {
			return configErrorf(field, "ship %s: unload time %.0f exceeds %d minutes", plan.Name, base, maxTimeMagnitude)
		}
	}
	return nil
}

// Normalize returns a deep copy of c with inverted jitter ranges swapped.
func (c Config) Normalize() Config {
	if c.ArrivalJitterMin > c.ArrivalJitterMax {
		logrus.Warnf("arrival jitter range [%d, %d] is inverted; swapping bounds", c.ArrivalJitterMin, c.ArrivalJitterMax)
		c.ArrivalJitterMin, c.ArrivalJitterMax = c.ArrivalJitterMax, c.ArrivalJitterMin
	}
	if c.UnloadExtraMin > c.UnloadExtraMax {
		logrus.Warnf("unload jitter range [%d, %d] is inverted; swapping bounds", c.UnloadExtraMin, c.UnloadExtraMax)
		c.UnloadExtraMin, c.UnloadExtraMax = c.UnloadExtraMax, c.UnloadExtraMin
	}
	c.Schedule = append([]ShipPlan(nil), c.Schedule...)
	return c
}
