package simulation

import "fmt"

// HeatingMode selects the control law used by the Controller.
type HeatingMode string

const (
	ModeNone       HeatingMode = "none"
	ModeThermostat HeatingMode = "thermostat"
	ModeFixedPower HeatingMode = "fixed_power"
	ModeSchedule   HeatingMode = "schedule"
)

func (m HeatingMode) Valid() bool {
	return m == ModeNone || m == ModeThermostat || m == ModeFixedPower || m == ModeSchedule
}

// ParseHeatingMode is lenient: an empty string resolves to the thermostat
// default, anything else must be a known mode.
func ParseHeatingMode(s string) (HeatingMode, error) {
	if s == "" {
		return ModeThermostat, nil
	}
	m := HeatingMode(s)
	if !m.Valid() {
		return ModeThermostat, fmt.Errorf("invalid heating mode: %q", s)
	}
	return m, nil
}

// SealingQuality drives the per-opening air infiltration addend.
type SealingQuality string

const (
	SealingPoor      SealingQuality = "poor"
	SealingAverage   SealingQuality = "average"
	SealingGood      SealingQuality = "good"
	SealingExcellent SealingQuality = "excellent"
)

// Floorplan is the immutable geometric input of one simulation run.
// All lengths and coordinates are in feet (the editor's native unit);
// wall and insulation thicknesses are in meters, slab areas in m².
// Optional fields are pointers so that absence is distinguishable from zero.
type Floorplan struct {
	Walls       []Wall       `json:"walls"`
	Windows     []Opening    `json:"windows"`
	Doors       []Opening    `json:"doors"`
	Floor       *Slab        `json:"floor"`
	Ceiling     *Slab        `json:"ceiling"`
	Ventilation *Ventilation `json:"ventilation"`

	// RoomVolume overrides the estimated volume, in m³.
	RoomVolume *float64 `json:"room_volume"`
	// ThermalMass overrides the whole-room heat capacity, in kJ/K.
	ThermalMass *float64 `json:"thermal_mass"`
}

type Wall struct {
	ID string  `json:"id"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`

	Height    *float64 `json:"height"`    // feet
	Thickness *float64 `json:"thickness"` // meters
	Material  string   `json:"material"`
	UValue    *float64 `json:"u_value"` // explicit override, W/(m²·K)

	Insulation *Insulation `json:"insulation"`
}

// Insulation is an optional secondary layer added in series to a wall.
type Insulation struct {
	Material  string  `json:"material"`
	Thickness float64 `json:"thickness"` // meters
}

// Opening is a window or a door hosted by a wall.
type Opening struct {
	ID       string         `json:"id"`
	WallID   string         `json:"wall_id"`
	Position float64        `json:"position"` // 0–1 along the wall, informational
	Width    *float64       `json:"width"`    // feet
	Height   *float64       `json:"height"`   // feet
	Material string         `json:"material"`
	UValue   *float64       `json:"u_value"`
	Sealing  SealingQuality `json:"sealing"`
}

// Slab describes the floor or the ceiling.
type Slab struct {
	Area   *float64 `json:"area"` // m²
	UValue *float64 `json:"u_value"`
	Type   string   `json:"type"` // "ground" halves the effective ΔT for floors
}

type Ventilation struct {
	AirChangesPerHour *float64 `json:"air_changes_per_hour"`
	ExhaustRate       *float64 `json:"exhaust_rate"` // mechanical exhaust, m³/h
}

// BaseACH returns the configured base air change rate, defaulted.
func (v *Ventilation) BaseACH() float64 {
	if v == nil || v.AirChangesPerHour == nil {
		return defaultACH
	}
	return *v.AirChangesPerHour
}

// Config is the per-run simulation configuration. Exactly one of the
// mode-specific blocks is consulted, selected by HeatingMode.
type Config struct {
	HeatingMode        string   `json:"heating_mode"`
	OutdoorTemperature *float64 `json:"outdoor_temperature"` // °C
	InitialIndoorTemp  *float64 `json:"initial_indoor_temp"` // °C
	DurationHours      *float64 `json:"duration_hours"`
	TimestepMinutes    *float64 `json:"timestep_minutes"` // reporting interval

	Thermostat *ThermostatParams `json:"thermostat"`
	FixedPower *FixedPowerParams `json:"fixed_power"`
	Schedule   *ScheduleParams   `json:"schedule"`
}

type ThermostatParams struct {
	Setpoint   *float64 `json:"setpoint"`
	Hysteresis *float64 `json:"hysteresis"`
	MaxPower   *float64 `json:"max_power"` // W
}

type FixedPowerParams struct {
	Power *float64 `json:"power"` // W
}

type ScheduleParams struct {
	HoursPerDay *float64 `json:"hours_per_day"`
	Power       *float64 `json:"power"` // W
	StartHour   *int     `json:"start_hour"`
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
