package simulation

import (
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func fp(v float64) *float64 { return &v }

// brickWallPlan is the reference scenario: one 10 m x 2.8 m brick wall
// (0.2 m thick), no openings, no slabs, default ventilation, 50 m³ room.
func brickWallPlan() Floorplan {
	return Floorplan{
		Walls: []Wall{{
			ID: "w1",
			X1: 0, Y1: 0,
			X2: 10 / feetToMeters, Y2: 0,
			Height:    fp(2.8 / feetToMeters),
			Thickness: fp(0.2),
			Material:  "brick",
		}},
		RoomVolume: fp(50),
	}
}

func TestTotalLossZeroDeltaT(t *testing.T) {
	plan := brickWallPlan()
	plan.Windows = []Opening{{ID: "win1", WallID: "w1", Width: fp(3), Height: fp(4)}}
	plan.Floor = &Slab{Area: fp(20), UValue: fp(0.5)}
	plan.Ceiling = &Slab{Area: fp(20), UValue: fp(0.3)}

	calc := NewCalculator(plan, 20)
	b := calc.TotalLoss(20)

	for name, v := range map[string]float64{
		"walls":       b.Walls,
		"windows":     b.Windows,
		"doors":       b.Doors,
		"floor":       b.Floor,
		"ceiling":     b.Ceiling,
		"ventilation": b.Ventilation,
		"total":       b.Total,
	} {
		if v != 0 {
			t.Errorf("%s loss = %v, want 0 at zero delta-t", name, v)
		}
	}
}

func TestTotalIsSumOfElements(t *testing.T) {
	plans := map[string]Floorplan{
		"empty": {},
		"full": func() Floorplan {
			plan := brickWallPlan()
			plan.Windows = []Opening{{ID: "win1", WallID: "w1", Sealing: SealingPoor}}
			plan.Doors = []Opening{{ID: "d1", WallID: "w1", Sealing: SealingGood}}
			plan.Floor = &Slab{Area: fp(20), UValue: fp(0.5), Type: "ground"}
			plan.Ceiling = &Slab{Area: fp(20), UValue: fp(0.3)}
			return plan
		}(),
	}

	for name, plan := range plans {
		t.Run(name, func(t *testing.T) {
			calc := NewCalculator(plan, 0)
			b := calc.TotalLoss(20)
			sum := b.Walls + b.Windows + b.Doors + b.Floor + b.Ceiling + b.Ventilation
			if !almostEqual(b.Total, sum, 1e-9) {
				t.Errorf("Total = %v, want sum of elements %v", b.Total, sum)
			}
		})
	}
}

func TestWallUValue(t *testing.T) {
	tests := []struct {
		name string
		wall Wall
		want float64
	}{
		{
			name: "explicit override wins",
			wall: Wall{Thickness: fp(0.2), Material: "brick", UValue: fp(0.42)},
			want: 0.42,
		},
		{
			name: "derived for reference brick",
			wall: Wall{Thickness: fp(0.2), Material: "brick"},
			want: 1 / (rFilmInterior + 0.2/0.8 + rFilmExterior),
		},
		{
			name: "unknown material resolves to brick",
			wall: Wall{Thickness: fp(0.2), Material: "adobe"},
			want: 1 / (rFilmInterior + 0.2/0.8 + rFilmExterior),
		},
		{
			name: "non-positive thickness falls back to reference wall",
			wall: Wall{Thickness: fp(0), Material: "concrete"},
			want: 1 / (rFilmInterior + refWallThickness/refWallConductivity + rFilmExterior),
		},
		{
			name: "missing thickness falls back to reference wall",
			wall: Wall{Material: "wood"},
			want: 1 / (rFilmInterior + refWallThickness/refWallConductivity + rFilmExterior),
		},
		{
			name: "insulation layer adds series resistance",
			wall: Wall{Thickness: fp(0.2), Material: "brick", Insulation: &Insulation{Material: "insulated", Thickness: 0.1}},
			want: 1 / (rFilmInterior + 0.2/0.8 + 0.1/0.04 + rFilmExterior),
		},
		{
			name: "insulation material defaults to insulation conductivity",
			wall: Wall{Thickness: fp(0.2), Material: "brick", Insulation: &Insulation{Thickness: 0.1}},
			want: 1 / (rFilmInterior + 0.2/0.8 + 0.1/0.04 + rFilmExterior),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wallUValue(tt.wall)
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("wallUValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReferenceBrickWallScenario(t *testing.T) {
	calc := NewCalculator(brickWallPlan(), 0)

	// U = 1/(0.13 + 0.2/0.8 + 0.30) ≈ 1.47, area 28 m², delta-t 20.
	wantWall := 1 / 0.68 * 28 * 20
	if got := calc.WallLoss(20); !almostEqual(got, wantWall, 0.5) {
		t.Errorf("WallLoss(20) = %v, want ≈ %v", got, wantWall)
	}

	// 0.5 ACH on 50 m³: 1.2 * (0.5*50/3600) * 1005 * 20.
	wantVent := airDensity * (0.5 * 50 / 3600) * airSpecificHeat * 20
	if got := calc.VentilationLoss(20); !almostEqual(got, wantVent, 0.1) {
		t.Errorf("VentilationLoss(20) = %v, want ≈ %v", got, wantVent)
	}

	b := calc.TotalLoss(20)
	if !almostEqual(b.Total, wantWall+wantVent, 0.6) {
		t.Errorf("Total = %v, want ≈ %v", b.Total, wantWall+wantVent)
	}
}

func TestLossMonotonicInUValueAndArea(t *testing.T) {
	base := brickWallPlan()
	calc := NewCalculator(base, 0)
	baseLoss := calc.WallLoss(20)

	higherU := brickWallPlan()
	higherU.Walls[0].UValue = fp(3.0)
	if got := NewCalculator(higherU, 0).WallLoss(20); got <= baseLoss {
		t.Errorf("WallLoss with higher U = %v, want > %v", got, baseLoss)
	}

	larger := brickWallPlan()
	larger.Walls[0].X2 *= 2
	if got := NewCalculator(larger, 0).WallLoss(20); got <= baseLoss {
		t.Errorf("WallLoss with larger area = %v, want > %v", got, baseLoss)
	}

	window := Floorplan{Windows: []Opening{{ID: "win1", Width: fp(3), Height: fp(4), UValue: fp(2.8)}}}
	baseWin := NewCalculator(window, 0).WindowLoss(20)
	window.Windows[0].UValue = fp(5.0)
	if got := NewCalculator(window, 0).WindowLoss(20); got <= baseWin {
		t.Errorf("WindowLoss with higher U = %v, want > %v", got, baseWin)
	}
}

func TestDegenerateWallContributesNothing(t *testing.T) {
	plan := Floorplan{Walls: []Wall{{ID: "w1", X1: 3, Y1: 4, X2: 3, Y2: 4, Thickness: fp(0.2)}}}
	if got := NewCalculator(plan, 0).WallLoss(20); got != 0 {
		t.Errorf("WallLoss for zero-length wall = %v, want 0", got)
	}
}

func TestNetWallAreaClampedAtZero(t *testing.T) {
	plan := brickWallPlan()
	// One opening larger than the whole wall.
	plan.Doors = []Opening{{ID: "d1", WallID: "w1", Width: fp(200), Height: fp(200)}}
	if got := NewCalculator(plan, 0).WallLoss(20); got != 0 {
		t.Errorf("WallLoss with oversized opening = %v, want 0", got)
	}
}

func TestFloorLoss(t *testing.T) {
	tests := []struct {
		name  string
		floor *Slab
		want  float64
	}{
		{"absent floor", nil, 0},
		{"suspended floor", &Slab{Area: fp(20), UValue: fp(0.5)}, 0.5 * 20 * 20},
		{"ground slab halves delta-t", &Slab{Area: fp(20), UValue: fp(0.5), Type: "ground"}, 0.5 * 20 * 10},
		{"defaults applied", &Slab{}, defaultFloorUValue * defaultSlabArea * 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(Floorplan{Floor: tt.floor}, 0)
			if got := calc.FloorLoss(20); !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("FloorLoss(20) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCeilingLoss(t *testing.T) {
	calc := NewCalculator(Floorplan{}, 0)
	if got := calc.CeilingLoss(20); got != 0 {
		t.Errorf("CeilingLoss without ceiling = %v, want 0", got)
	}

	calc = NewCalculator(Floorplan{Ceiling: &Slab{Area: fp(25), UValue: fp(0.3)}}, 0)
	if got, want := calc.CeilingLoss(20), 0.3*25*20.0; !almostEqual(got, want, 1e-9) {
		t.Errorf("CeilingLoss(20) = %v, want %v", got, want)
	}
}

func TestVentilationLossSealingAndExhaust(t *testing.T) {
	plan := Floorplan{
		Windows:     []Opening{{ID: "win1", Sealing: SealingPoor}},
		Doors:       []Opening{{ID: "d1", Sealing: SealingGood}},
		Ventilation: &Ventilation{AirChangesPerHour: fp(0.5), ExhaustRate: fp(36)},
		RoomVolume:  fp(50),
	}
	calc := NewCalculator(plan, 0)

	// Effective ACH 0.5 + 0.5 + 0.15; exhaust 36 m³/h on top.
	flow := (1.15*50 + 36) / 3600
	want := airDensity * flow * airSpecificHeat * 20
	if got := calc.VentilationLoss(20); !almostEqual(got, want, 1e-6) {
		t.Errorf("VentilationLoss(20) = %v, want %v", got, want)
	}
}

func TestUnknownSealingCountsAsAverage(t *testing.T) {
	known := Floorplan{Windows: []Opening{{ID: "win1", Sealing: SealingAverage}}, RoomVolume: fp(50)}
	unknown := Floorplan{Windows: []Opening{{ID: "win1", Sealing: "leaky"}}, RoomVolume: fp(50)}

	got := NewCalculator(unknown, 0).VentilationLoss(20)
	want := NewCalculator(known, 0).VentilationLoss(20)
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("VentilationLoss with unknown sealing = %v, want %v", got, want)
	}
}

func TestRoomVolumeResolution(t *testing.T) {
	tests := []struct {
		name string
		plan Floorplan
		want float64
	}{
		{
			name: "explicit override",
			plan: Floorplan{RoomVolume: fp(75), Floor: &Slab{Area: fp(20)}},
			want: 75,
		},
		{
			name: "floor area times mean wall height",
			plan: Floorplan{
				Walls: []Wall{{ID: "w1", X2: 10, Height: fp(3 / feetToMeters)}},
				Floor: &Slab{Area: fp(20)},
			},
			want: 20 * 3,
		},
		{
			name: "floor without walls uses default height",
			plan: Floorplan{Floor: &Slab{Area: fp(20)}},
			want: 20 * defaultMeanHeightM,
		},
		{
			name: "bare plan falls back to default volume",
			plan: Floorplan{},
			want: defaultRoomVolume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewCalculator(tt.plan, 0)
			if got := calc.RoomVolume(); !almostEqual(got, tt.want, 1e-6) {
				t.Errorf("RoomVolume() = %v, want %v", got, tt.want)
			}
		})
	}
}
