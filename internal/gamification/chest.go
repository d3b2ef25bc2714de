package gamification

import (
	"math"
	"time"

	"github.com/focusflow/focusflow/internal/store"
)

const (
	// CreditThresholdMinutes is the productive time that earns one chest
	// credit. Accrual is cumulative: leftover minutes carry to the next
	// activity instead of resetting.
	CreditThresholdMinutes = 120

	// EligibilityHours is the productive time required today before the
	// chest UI unlocks.
	EligibilityHours = 2.0

	// RepairCost is the credit price of repairing a broken item.
	RepairCost = 5
)

// productiveCategories earn chest credits and chest eligibility.
var productiveCategories = map[store.Category]bool{
	store.CategoryCareer: true,
	store.CategoryHealth: true,
}

// AccrueCredits applies an activity's duration to the cumulative credit
// meter. carried is the minutes already banked toward the next credit.
// Returns the credits earned now and the new remainder. Activities with a
// non-positive score bank nothing.
func AccrueCredits(carried int, productivityScore float64, durationMinutes int) (earned, remainder int) {
	if productivityScore <= 0 {
		return 0, carried
	}
	if durationMinutes <= 0 {
		durationMinutes = 30
	}
	total := carried + durationMinutes
	return total / CreditThresholdMinutes, total % CreditThresholdMinutes
}

// Eligibility reports progress toward today's chest unlock.
type Eligibility struct {
	Eligible        bool    `json:"eligible"`
	ProductiveHours float64 `json:"productive_hours"`
	RequiredHours   float64 `json:"required_hours"`
	RemainingHours  float64 `json:"remaining_hours"`
}

// ChestEligibility checks whether today's Career and Health minutes add up
// to the unlock threshold. todaysActivities must already be scoped to the
// user's current day.
func ChestEligibility(todaysActivities []store.Activity) Eligibility {
	minutes := 0
	for _, a := range todaysActivities {
		if productiveCategories[a.Category] {
			minutes += a.DurationMinutes
		}
	}

	hours := round1(float64(minutes) / 60)
	remaining := math.Max(0, round1(EligibilityHours-hours))
	return Eligibility{
		Eligible:        hours >= EligibilityHours,
		ProductiveHours: hours,
		RequiredHours:   EligibilityHours,
		RemainingHours:  remaining,
	}
}

// StartOfDay returns UTC midnight for the local day containing now.
// tzOffsetMinutes follows the client convention: positive when behind UTC.
func StartOfDay(now time.Time, tzOffsetMinutes int) time.Time {
	local := localDate(now, tzOffsetMinutes)
	return local.Add(time.Duration(tzOffsetMinutes) * time.Minute)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
