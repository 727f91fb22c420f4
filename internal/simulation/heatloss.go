package simulation

import "math"

// Physical constants shared by the calculator and the engine.
const (
	feetToMeters    = 0.3048
	airDensity      = 1.2    // kg/m³
	airSpecificHeat = 1005.0 // J/(kg·K)
)

// Interior/exterior air-film resistances, m²K/W. Tuned so the reference
// brick wall (0.2 m at k = 0.8) lands near the legacy brick U-value of 1.5.
const (
	rFilmInterior = 0.13
	rFilmExterior = 0.30
)

// Reference wall used when a wall's thickness or conductivity is unusable.
const (
	refWallThickness    = 0.2 // meters
	refWallConductivity = 0.8 // W/(m·K), brick
)

const (
	defaultWallHeightFt   = 9.0
	defaultWindowWidthFt  = 3.0
	defaultWindowHeightFt = 4.0
	defaultDoorWidthFt    = 3.0
	defaultDoorHeightFt   = 7.0
	defaultWindowUValue   = 2.8
	defaultDoorUValue     = 2.0
	defaultFloorUValue    = 0.5
	defaultCeilingUValue  = 0.3
	defaultSlabArea       = 20.0 // m²
	defaultACH            = 0.5
	defaultRoomVolume     = 50.0 // m³
	defaultMeanHeightM    = 2.8  // meters, when no walls exist
)

// Material thermal conductivities in W/(m·K).
var materialConductivity = map[string]float64{
	"brick":     0.8,
	"concrete":  1.8,
	"wood":      0.15,
	"glass":     1.0,
	"insulated": 0.04,
	"steel":     50.0,
}

// Additional air changes per hour contributed by one opening, by sealing.
var sealingInfiltration = map[SealingQuality]float64{
	SealingPoor:      0.5,
	SealingAverage:   0.3,
	SealingGood:      0.15,
	SealingExcellent: 0.05,
}

// Breakdown is the instantaneous heat loss in Watts per building element.
// Every element is always present; absent geometry contributes zero.
type Breakdown struct {
	Walls       float64 `json:"walls"`
	Windows     float64 `json:"windows"`
	Doors       float64 `json:"doors"`
	Floor       float64 `json:"floor"`
	Ceiling     float64 `json:"ceiling"`
	Ventilation float64 `json:"ventilation"`
	Total       float64 `json:"total"`
}

func (b *Breakdown) addScaled(o Breakdown, factor float64) {
	b.Walls += o.Walls * factor
	b.Windows += o.Windows * factor
	b.Doors += o.Doors * factor
	b.Floor += o.Floor * factor
	b.Ceiling += o.Ceiling * factor
	b.Ventilation += o.Ventilation * factor
	b.Total += o.Total * factor
}

func (b *Breakdown) round(places int) {
	b.Walls = roundTo(b.Walls, places)
	b.Windows = roundTo(b.Windows, places)
	b.Doors = roundTo(b.Doors, places)
	b.Floor = roundTo(b.Floor, places)
	b.Ceiling = roundTo(b.Ceiling, places)
	b.Ventilation = roundTo(b.Ventilation, places)
	b.Total = roundTo(b.Total, places)
}

// Calculator maps (floorplan, indoor temperature) to instantaneous heat
// loss per element. Geometry is resolved once at construction; the per-call
// loss functions are linear in the indoor/outdoor differential.
type Calculator struct {
	plan        Floorplan
	outdoorTemp float64

	roomVolume   float64
	wallAreas    map[string]float64 // gross area per wall, m²
	wallUValues  map[string]float64
	openingAreas map[string]float64 // window+door area per owning wall, m²
}

func NewCalculator(plan Floorplan, outdoorTemp float64) *Calculator {
	c := &Calculator{
		plan:         plan,
		outdoorTemp:  outdoorTemp,
		wallAreas:    make(map[string]float64, len(plan.Walls)),
		wallUValues:  make(map[string]float64, len(plan.Walls)),
		openingAreas: make(map[string]float64),
	}
	c.resolveGeometry()
	return c
}

func (c *Calculator) resolveGeometry() {
	heightSum := 0.0
	for _, w := range c.plan.Walls {
		lengthM := math.Hypot(w.X2-w.X1, w.Y2-w.Y1) * feetToMeters
		heightM := orDefault(w.Height, defaultWallHeightFt) * feetToMeters
		if heightM < 0 {
			heightM = 0
		}
		heightSum += heightM
		c.wallAreas[w.ID] = lengthM * heightM
		c.wallUValues[w.ID] = wallUValue(w)
	}

	for _, o := range c.plan.Windows {
		c.openingAreas[o.WallID] += openingArea(o, defaultWindowWidthFt, defaultWindowHeightFt)
	}
	for _, o := range c.plan.Doors {
		c.openingAreas[o.WallID] += openingArea(o, defaultDoorWidthFt, defaultDoorHeightFt)
	}

	switch {
	case c.plan.RoomVolume != nil && *c.plan.RoomVolume > 0:
		c.roomVolume = *c.plan.RoomVolume
	case c.plan.Floor != nil:
		meanHeight := defaultMeanHeightM
		if n := len(c.plan.Walls); n > 0 {
			meanHeight = heightSum / float64(n)
		}
		c.roomVolume = orDefault(c.plan.Floor.Area, defaultSlabArea) * meanHeight
	default:
		c.roomVolume = defaultRoomVolume
	}
}

// wallUValue resolves a wall's effective U-value: explicit override first,
// else the series-resistance law over air films, the wall layer, and an
// optional insulation layer. Unusable layer data degrades to the reference
// brick wall rather than failing.
func wallUValue(w Wall) float64 {
	if w.UValue != nil && *w.UValue > 0 {
		return *w.UValue
	}

	k := conductivity(w.Material, refWallConductivity)
	thickness := orDefault(w.Thickness, 0)
	if thickness <= 0 || k <= 0 {
		thickness, k = refWallThickness, refWallConductivity
	}

	resistance := rFilmInterior + thickness/k + rFilmExterior
	if ins := w.Insulation; ins != nil && ins.Thickness > 0 {
		ki := conductivity(ins.Material, materialConductivity["insulated"])
		if ki > 0 {
			resistance += ins.Thickness / ki
		}
	}
	return 1 / resistance
}

func conductivity(material string, fallback float64) float64 {
	if k, ok := materialConductivity[material]; ok {
		return k
	}
	return fallback
}

func openingArea(o Opening, defWidthFt, defHeightFt float64) float64 {
	w := orDefault(o.Width, defWidthFt) * feetToMeters
	h := orDefault(o.Height, defHeightFt) * feetToMeters
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}

// RoomVolume returns the resolved room volume in m³.
func (c *Calculator) RoomVolume() float64 {
	return c.roomVolume
}

// WallLoss returns conductive loss through walls in Watts, each wall's area
// net of the openings it hosts.
func (c *Calculator) WallLoss(indoorTemp float64) float64 {
	deltaT := indoorTemp - c.outdoorTemp
	total := 0.0
	for _, w := range c.plan.Walls {
		netArea := c.wallAreas[w.ID] - c.openingAreas[w.ID]
		if netArea < 0 {
			netArea = 0
		}
		total += c.wallUValues[w.ID] * netArea * deltaT
	}
	return total
}

func (c *Calculator) WindowLoss(indoorTemp float64) float64 {
	deltaT := indoorTemp - c.outdoorTemp
	total := 0.0
	for _, o := range c.plan.Windows {
		u := orDefault(o.UValue, defaultWindowUValue)
		total += u * openingArea(o, defaultWindowWidthFt, defaultWindowHeightFt) * deltaT
	}
	return total
}

func (c *Calculator) DoorLoss(indoorTemp float64) float64 {
	deltaT := indoorTemp - c.outdoorTemp
	total := 0.0
	for _, o := range c.plan.Doors {
		u := orDefault(o.UValue, defaultDoorUValue)
		total += u * openingArea(o, defaultDoorWidthFt, defaultDoorHeightFt) * deltaT
	}
	return total
}

// FloorLoss halves the differential for ground slabs, approximating ground
// coupling (the ground sits well above outdoor air temperature in winter).
func (c *Calculator) FloorLoss(indoorTemp float64) float64 {
	f := c.plan.Floor
	if f == nil {
		return 0
	}
	deltaT := indoorTemp - c.outdoorTemp
	if f.Type == "ground" {
		deltaT *= 0.5
	}
	return orDefault(f.UValue, defaultFloorUValue) * orDefault(f.Area, defaultSlabArea) * deltaT
}

func (c *Calculator) CeilingLoss(indoorTemp float64) float64 {
	cl := c.plan.Ceiling
	if cl == nil {
		return 0
	}
	deltaT := indoorTemp - c.outdoorTemp
	return orDefault(cl.UValue, defaultCeilingUValue) * orDefault(cl.Area, defaultSlabArea) * deltaT
}

// VentilationLoss covers the base air change rate, per-opening infiltration
// by sealing quality, and mechanical exhaust.
func (c *Calculator) VentilationLoss(indoorTemp float64) float64 {
	ach := c.plan.Ventilation.BaseACH()
	exhaust := 0.0
	if v := c.plan.Ventilation; v != nil && v.ExhaustRate != nil {
		exhaust = *v.ExhaustRate
	}

	for _, o := range c.plan.Windows {
		ach += infiltration(o.Sealing)
	}
	for _, o := range c.plan.Doors {
		ach += infiltration(o.Sealing)
	}

	flowPerSecond := (ach*c.roomVolume + exhaust) / 3600
	deltaT := indoorTemp - c.outdoorTemp
	return airDensity * flowPerSecond * airSpecificHeat * deltaT
}

func infiltration(s SealingQuality) float64 {
	if add, ok := sealingInfiltration[s]; ok {
		return add
	}
	return sealingInfiltration[SealingAverage]
}

// TotalLoss returns the full per-element breakdown at the given indoor
// temperature, with Total the sum of the six elements.
func (c *Calculator) TotalLoss(indoorTemp float64) Breakdown {
	b := Breakdown{
		Walls:       c.WallLoss(indoorTemp),
		Windows:     c.WindowLoss(indoorTemp),
		Doors:       c.DoorLoss(indoorTemp),
		Floor:       c.FloorLoss(indoorTemp),
		Ceiling:     c.CeilingLoss(indoorTemp),
		Ventilation: c.VentilationLoss(indoorTemp),
	}
	b.Total = b.Walls + b.Windows + b.Doors + b.Floor + b.Ceiling + b.Ventilation
	return b
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
