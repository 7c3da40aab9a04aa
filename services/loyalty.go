package services

import "inkstudio-backend/models"

const (
	// DiscountThreshold is the point balance that unlocks the 10% discount.
	DiscountThreshold = 1000
	defaultPoints     = 50
)

var pointsTable = map[string]int{
	models.ServiceMinimalist:      50,
	models.ServiceMinimalistPack5: 250,
	models.ServiceCoverUp:         100,
	models.ServiceCustom:          150,
}

// PointsFor returns the loyalty points a booking of service earns. Unknown labels earn
// the default 50.
func PointsFor(service string) int {
	if points, ok := pointsTable[service]; ok {
		return points
	}
	return defaultPoints
}

type Level struct {
	Name          string `json:"name"`
	Threshold     int    `json:"threshold"`
	NextName      string `json:"nextName,omitempty"`
	NextThreshold int    `json:"nextThreshold,omitempty"`
}

// levels must stay sorted by threshold.
var levels = []struct {
	name      string
	threshold int
}{
	{"Iniciante", 0},
	{"Bronze", 200},
	{"Prata", 500},
	{"Ouro", 800},
	{"Diamante", 1000},
}

// LevelFor picks the highest level whose threshold is <= points.
func LevelFor(points int) Level {
	idx := 0
	for i, l := range levels {
		if points >= l.threshold {
			idx = i
		}
	}
	level := Level{Name: levels[idx].name, Threshold: levels[idx].threshold}
	if idx+1 < len(levels) {
		level.NextName = levels[idx+1].name
		level.NextThreshold = levels[idx+1].threshold
	}
	return level
}

// ProgressToDiscount is the percentage (0-100) of the way to DiscountThreshold.
func ProgressToDiscount(points int) float64 {
	if points <= 0 {
		return 0
	}
	if points >= DiscountThreshold {
		return 100
	}
	return float64(points) * 100 / DiscountThreshold
}

type LoyaltySummary struct {
	Points             int                    `json:"points"`
	TotalAppointments  int                    `json:"totalAppointments"`
	Level              Level                  `json:"level"`
	ProgressToDiscount float64                `json:"progressToDiscount"`
	DiscountUnlocked   bool                   `json:"discountUnlocked"`
	History            []models.LoyaltyCredit `json:"history"`
}

func SummarizeLoyalty(user *models.User, history []models.LoyaltyCredit) LoyaltySummary {
	if history == nil {
		history = []models.LoyaltyCredit{}
	}
	return LoyaltySummary{
		Points:             user.LoyaltyPoints,
		TotalAppointments:  user.TotalAppointments,
		Level:              LevelFor(user.LoyaltyPoints),
		ProgressToDiscount: ProgressToDiscount(user.LoyaltyPoints),
		DiscountUnlocked:   user.LoyaltyPoints >= DiscountThreshold,
		History:            history,
	}
}
