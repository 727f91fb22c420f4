package simulation

// Thermostat defaults.
const (
	defaultSetpoint   = 20.0
	defaultHysteresis = 0.5
	defaultMaxPower   = 3000.0
)

// Fixed-power and schedule defaults.
const (
	defaultFixedPower    = 2000.0
	defaultScheduleHours = 8.0
	defaultSchedulePower = 2000.0
	defaultScheduleStart = 6
	minutesPerDay        = 24 * 60
	minCycleMinutes      = 2
	neverSwitched        = -999
)

// Controller decides instantaneous heating power from indoor temperature
// and elapsed simulated time. Only the thermostat mode carries state (the
// hysteresis relay and its last switch time), so a Controller must never be
// shared between runs.
type Controller struct {
	mode HeatingMode
	cfg  Config

	heatingOn        bool
	lastSwitchMinute int
}

func NewController(cfg Config) *Controller {
	mode, _ := ParseHeatingMode(cfg.HeatingMode)
	return &Controller{
		mode:             mode,
		cfg:              cfg,
		lastSwitchMinute: neverSwitched,
	}
}

// Mode returns the resolved heating mode.
func (c *Controller) Mode() HeatingMode {
	return c.mode
}

// HeatingPower returns (power in Watts, heating active) for the current
// tick. elapsedMinutes is whole simulated minutes since the run started.
func (c *Controller) HeatingPower(indoorTemp float64, elapsedMinutes int) (float64, bool) {
	switch c.mode {
	case ModeThermostat:
		return c.thermostat(indoorTemp, elapsedMinutes)
	case ModeFixedPower:
		return c.fixedPower()
	case ModeSchedule:
		return c.schedule(elapsedMinutes)
	default:
		return 0, false
	}
}

// thermostat is a two-threshold hysteresis relay: ON below
// setpoint−hysteresis, OFF above setpoint. A minimum-cycle guard suppresses
// switches attempted within minCycleMinutes of the previous one; while the
// guard holds, the pre-transition state keeps being returned.
func (c *Controller) thermostat(indoorTemp float64, elapsedMinutes int) (float64, bool) {
	var p ThermostatParams
	if c.cfg.Thermostat != nil {
		p = *c.cfg.Thermostat
	}
	setpoint := orDefault(p.Setpoint, defaultSetpoint)
	hysteresis := orDefault(p.Hysteresis, defaultHysteresis)
	maxPower := orDefault(p.MaxPower, defaultMaxPower)

	lowerThreshold := setpoint - hysteresis
	upperThreshold := setpoint

	canSwitch := elapsedMinutes-c.lastSwitchMinute >= minCycleMinutes
	if canSwitch {
		switch {
		case !c.heatingOn && indoorTemp < lowerThreshold:
			c.heatingOn = true
			c.lastSwitchMinute = elapsedMinutes
		case c.heatingOn && indoorTemp > upperThreshold:
			c.heatingOn = false
			c.lastSwitchMinute = elapsedMinutes
		}
	}

	if c.heatingOn {
		return maxPower, true
	}
	return 0, false
}

func (c *Controller) fixedPower() (float64, bool) {
	var p FixedPowerParams
	if c.cfg.FixedPower != nil {
		p = *c.cfg.FixedPower
	}
	return orDefault(p.Power, defaultFixedPower), true
}

// schedule is active for a continuous block of hoursPerDay starting at
// startHour, wrapping past midnight when the block crosses it.
func (c *Controller) schedule(elapsedMinutes int) (float64, bool) {
	var p ScheduleParams
	if c.cfg.Schedule != nil {
		p = *c.cfg.Schedule
	}
	hoursPerDay := orDefault(p.HoursPerDay, defaultScheduleHours)
	power := orDefault(p.Power, defaultSchedulePower)
	startHour := defaultScheduleStart
	if p.StartHour != nil {
		startHour = *p.StartHour
	}

	hourOfDay := (elapsedMinutes % minutesPerDay) / 60
	endHour := (startHour + int(hoursPerDay)) % 24

	var active bool
	if startHour <= endHour {
		active = startHour <= hourOfDay && hourOfDay < endHour
	} else {
		active = hourOfDay >= startHour || hourOfDay < endHour
	}

	if active {
		return power, true
	}
	return 0, false
}
