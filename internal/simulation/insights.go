package simulation

import (
	"fmt"
	"sort"
)

const maxInsights = 5

// Insight is one ranked improvement suggestion.
type Insight struct {
	Category                string  `json:"category"`
	Message                 string  `json:"message"`
	PotentialSavingsPercent float64 `json:"potential_savings_percent"`
}

// GenerateInsights evaluates independent, threshold-gated rules over the
// averaged loss breakdown and returns at most maxInsights items, sorted by
// descending estimated savings. A non-positive total short-circuits to an
// empty list.
func GenerateInsights(breakdown Breakdown, plan Floorplan) []Insight {
	insights := []Insight{}
	if breakdown.Total <= 0 {
		return insights
	}

	pct := func(component float64) float64 {
		return component / breakdown.Total * 100
	}

	// Windows: glazing share, then poor sealing counts.
	if windowPct := pct(breakdown.Windows); windowPct > 25 {
		insights = append(insights, Insight{
			Category:                "windows",
			Message:                 fmt.Sprintf("Windows account for %.1f%% of heat loss. Consider upgrading to double or triple glazing (U-value < 1.4 W/m²K).", windowPct),
			PotentialSavingsPercent: windowPct * 0.5,
		})
	}
	poorSealing := 0
	for _, o := range plan.Windows {
		if o.Sealing == SealingPoor {
			poorSealing++
		}
	}
	if poorSealing > 0 {
		insights = append(insights, Insight{
			Category:                "windows",
			Message:                 fmt.Sprintf("%d window(s) have poor sealing. Weatherstripping can reduce air infiltration significantly.", poorSealing),
			PotentialSavingsPercent: float64(poorSealing) * 3,
		})
	}

	// Walls: insulation share, then high-conductivity material counts.
	if wallPct := pct(breakdown.Walls); wallPct > 30 {
		insights = append(insights, Insight{
			Category:                "walls",
			Message:                 fmt.Sprintf("Walls account for %.1f%% of heat loss. Adding external or internal insulation could significantly reduce this.", wallPct),
			PotentialSavingsPercent: wallPct * 0.6,
		})
	}
	uninsulated := 0
	for _, w := range plan.Walls {
		if w.Material == "concrete" || w.Material == "steel" {
			uninsulated++
		}
	}
	if uninsulated > 0 {
		insights = append(insights, Insight{
			Category:                "walls",
			Message:                 fmt.Sprintf("%d wall(s) use high-conductivity materials. Consider adding insulation layer.", uninsulated),
			PotentialSavingsPercent: float64(uninsulated) * 5,
		})
	}

	// Ventilation: branch on whether the base rate itself is high.
	if ventPct := pct(breakdown.Ventilation); ventPct > 20 {
		ach := plan.Ventilation.BaseACH()
		if ach > 1.0 {
			insights = append(insights, Insight{
				Category:                "ventilation",
				Message:                 fmt.Sprintf("High ventilation rate (%.1f ACH) contributes %.1f%% of heat loss. Consider heat recovery ventilation (HRV).", ach, ventPct),
				PotentialSavingsPercent: ventPct * 0.7,
			})
		} else {
			insights = append(insights, Insight{
				Category:                "ventilation",
				Message:                 fmt.Sprintf("Air infiltration causes %.1f%% of heat loss. Improve sealing around windows, doors, and other penetrations.", ventPct),
				PotentialSavingsPercent: ventPct * 0.4,
			})
		}
	}

	if doorPct := pct(breakdown.Doors); doorPct > 10 {
		insights = append(insights, Insight{
			Category:                "doors",
			Message:                 fmt.Sprintf("Doors account for %.1f%% of heat loss. Consider insulated doors or adding weatherstripping.", doorPct),
			PotentialSavingsPercent: doorPct * 0.4,
		})
	}

	if floorPct := pct(breakdown.Floor); floorPct > 15 {
		insights = append(insights, Insight{
			Category:                "floor",
			Message:                 fmt.Sprintf("Floor accounts for %.1f%% of heat loss. Consider underfloor insulation.", floorPct),
			PotentialSavingsPercent: floorPct * 0.5,
		})
	}

	if ceilingPct := pct(breakdown.Ceiling); ceilingPct > 20 {
		insights = append(insights, Insight{
			Category:                "ceiling",
			Message:                 fmt.Sprintf("Ceiling/roof accounts for %.1f%% of heat loss. Loft or roof insulation is highly effective.", ceilingPct),
			PotentialSavingsPercent: ceilingPct * 0.7,
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].PotentialSavingsPercent > insights[j].PotentialSavingsPercent
	})
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}
