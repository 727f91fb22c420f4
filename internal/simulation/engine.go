package simulation

// Engine integration parameters. The internal step is fixed and much finer
// than the reporting interval so that explicit-Euler stability does not
// depend on the output granularity the caller asked for.
const (
	internalStepSeconds = 30
	secondsPerHour      = 3600.0

	defaultOutdoorTemp     = 5.0
	defaultInitialTemp     = 18.0
	defaultDurationHours   = 24.0
	defaultIntervalMinutes = 5.0

	// Whole-building heat capacity relative to bare room air. Walls and
	// furnishings store far more heat than the air itself; 8x is a tunable
	// lumped approximation, not a derived quantity.
	thermalMassMultiplier = 8.0

	// Safety clamp keeping degenerate inputs from diverging.
	minIndoorTemp = -20.0
	maxIndoorTemp = 60.0
)

// ReportingPoint is one interval-averaged sample of the output series.
type ReportingPoint struct {
	TimeMinutes        int     `json:"time_minutes"`
	IndoorTemp         float64 `json:"indoor_temp"`
	HeatingOn          bool    `json:"heating_on"`
	HeatingPower       float64 `json:"heating_power"`
	EnergyWh           float64 `json:"energy_wh"`
	CumulativeEnergyWh float64 `json:"cumulative_energy_wh"`
}

// Result is the complete, immutable outcome of one simulation run.
type Result struct {
	TimeSeries        []ReportingPoint `json:"time_series"`
	TotalEnergyKWh    float64          `json:"total_energy_kwh"`
	HeatLossBreakdown Breakdown        `json:"heat_loss_breakdown"`
	Insights          []Insight        `json:"insights"`
}

// Engine integrates the room energy balance over the configured duration.
// One Engine serves exactly one run; it holds no I/O and no wall-clock
// dependence, so identical inputs produce bit-identical results.
type Engine struct {
	plan Floorplan
	cfg  Config

	calc *Calculator
	ctrl *Controller

	outdoorTemp     float64
	initialTemp     float64
	durationHours   float64
	intervalMinutes float64
	thermalCapacity float64 // J/K
}

func NewEngine(plan Floorplan, cfg Config) *Engine {
	e := &Engine{
		plan:            plan,
		cfg:             cfg,
		outdoorTemp:     orDefault(cfg.OutdoorTemperature, defaultOutdoorTemp),
		initialTemp:     orDefault(cfg.InitialIndoorTemp, defaultInitialTemp),
		durationHours:   orDefault(cfg.DurationHours, defaultDurationHours),
		intervalMinutes: orDefault(cfg.TimestepMinutes, defaultIntervalMinutes),
	}
	e.calc = NewCalculator(plan, e.outdoorTemp)
	e.ctrl = NewController(cfg)
	e.thermalCapacity = e.resolveThermalCapacity()
	return e
}

func (e *Engine) resolveThermalCapacity() float64 {
	// Explicit override wins, interpreted in kJ/K.
	if e.plan.ThermalMass != nil && *e.plan.ThermalMass > 0 {
		return *e.plan.ThermalMass * 1000
	}
	volume := e.calc.RoomVolume()
	if volume <= 0 {
		volume = defaultRoomVolume
	}
	return volume * airDensity * airSpecificHeat * thermalMassMultiplier
}

// ThermalCapacity returns the resolved whole-room heat capacity in J/K.
func (e *Engine) ThermalCapacity() float64 {
	return e.thermalCapacity
}

// Run executes the fixed-step loop and aggregates it into reporting points.
func (e *Engine) Run() Result {
	totalSeconds := int(e.durationHours * secondsPerHour)
	intervalSeconds := int(e.intervalMinutes * 60)
	if intervalSeconds <= 0 {
		intervalSeconds = int(defaultIntervalMinutes * 60)
	}

	timeSeries := make([]ReportingPoint, 0, totalSeconds/intervalSeconds+1)
	var lossTotals Breakdown
	totalEnergyWh := 0.0
	cumulativeEnergyWh := 0.0

	indoorTemp := e.initialTemp
	currentSecond := 0
	// Primed one interval back so the first point lands at t=0.
	lastRecordingSecond := -intervalSeconds

	// Open-interval accumulators, reset at each reporting boundary.
	tempSum := 0.0
	powerSum := 0.0
	energyThisIntervalWh := 0.0
	heatingOnCount := 0
	samplesInInterval := 0

	for currentSecond < totalSeconds {
		loss := e.calc.TotalLoss(indoorTemp)

		elapsedMinutes := currentSecond / 60
		heatingPower, heatingOn := e.ctrl.HeatingPower(indoorTemp, elapsedMinutes)

		// dT = (Q_in - Q_out) * dt / C
		netPower := heatingPower - loss.Total
		tempChange := netPower * internalStepSeconds / e.thermalCapacity

		stepEnergyWh := heatingPower * internalStepSeconds / secondsPerHour
		energyThisIntervalWh += stepEnergyWh
		cumulativeEnergyWh += stepEnergyWh
		totalEnergyWh += stepEnergyWh

		tempSum += indoorTemp
		powerSum += heatingPower
		if heatingOn {
			heatingOnCount++
		}
		samplesInInterval++

		lossTotals.addScaled(loss, internalStepSeconds/secondsPerHour)

		if currentSecond-lastRecordingSecond >= intervalSeconds {
			avgTemp, avgPower := indoorTemp, heatingPower
			anyHeating := heatingOn
			if samplesInInterval > 0 {
				avgTemp = tempSum / float64(samplesInInterval)
				avgPower = powerSum / float64(samplesInInterval)
				anyHeating = heatingOnCount > 0
			}

			timeSeries = append(timeSeries, ReportingPoint{
				TimeMinutes:        currentSecond / 60,
				IndoorTemp:         roundTo(avgTemp, 2),
				HeatingOn:          anyHeating,
				HeatingPower:       roundTo(avgPower, 1),
				EnergyWh:           roundTo(energyThisIntervalWh, 3),
				CumulativeEnergyWh: roundTo(cumulativeEnergyWh, 3),
			})

			tempSum = 0
			powerSum = 0
			energyThisIntervalWh = 0
			heatingOnCount = 0
			samplesInInterval = 0
			lastRecordingSecond = currentSecond
		}

		indoorTemp += tempChange
		if indoorTemp < minIndoorTemp {
			indoorTemp = minIndoorTemp
		}
		if indoorTemp > maxIndoorTemp {
			indoorTemp = maxIndoorTemp
		}

		currentSecond += internalStepSeconds
	}

	lossTotals.round(2)

	// Insights are evaluated at the run-average reported temperature so they
	// reflect the averaged loss split, not a single instant.
	insights := []Insight{}
	if len(timeSeries) > 0 {
		tempSum := 0.0
		for _, p := range timeSeries {
			tempSum += p.IndoorTemp
		}
		avgBreakdown := e.calc.TotalLoss(tempSum / float64(len(timeSeries)))
		insights = GenerateInsights(avgBreakdown, e.plan)
	}

	return Result{
		TimeSeries:        timeSeries,
		TotalEnergyKWh:    roundTo(totalEnergyWh/1000, 3),
		HeatLossBreakdown: lossTotals,
		Insights:          insights,
	}
}
