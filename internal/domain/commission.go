// Package domain holds the pure rules of the dormitory: hostel commission,
// meal windows, dashboard statistics, search matching and role navigation.
package domain

import (
	"math"

	"github.com/Eursukkul/dormmate-service/internal/models"
)

const (
	BaseCommission = 0.10
	MinCommission  = 0.05
)

var sizeAdjustment = map[models.HostelSize]float64{
	models.HostelSmall:  0.02,
	models.HostelMedium: 0,
	models.HostelLarge:  -0.01,
}

var tierAdjustment = map[models.LocationTier]float64{
	models.Tier1: 0.02,
	models.Tier2: 0,
	models.Tier3: -0.01,
}

func ValidHostelSize(s models.HostelSize) bool {
	_, ok := sizeAdjustment[s]
	return ok
}

func ValidLocationTier(t models.LocationTier) bool {
	_, ok := tierAdjustment[t]
	return ok
}

// CommissionRate is max(0.05, 0.10 + size adjustment + tier adjustment),
// rounded to two decimals. Unknown sizes or tiers contribute no adjustment.
func CommissionRate(size models.HostelSize, tier models.LocationTier) float64 {
	rate := BaseCommission + sizeAdjustment[size] + tierAdjustment[tier]
	if rate < MinCommission {
		rate = MinCommission
	}
	return math.Round(rate*100) / 100
}
