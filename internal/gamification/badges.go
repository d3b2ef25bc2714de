package gamification

import (
	"time"

	"github.com/focusflow/focusflow/internal/store"
)

// Badge is a static achievement definition. Icon names match Lucide
// component names, same convention as the loot catalog.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon_name"`
}

// Badges lists every achievement that can be earned. Ownership is tracked
// by name in the store, so names must never change.
var Badges = []Badge{
	{"First Steps", "Logged your first activity", "Footprints"},
	{"Night Owl", "Logged an activity between 10 PM and 4 AM", "Moon"},
	{"Early Bird", "Logged an activity before 7 AM", "Sunrise"},
	{"Weekend Warrior", "Logged over 5 hours of activities on a weekend day", "Sword"},
	{"Iron Streak", "Logged activities for 7 consecutive days", "Flame"},
	{"Centurion", "Logged 100 total activities", "Trophy"},
	{"Focused Mind", "Completed 10 focus sessions", "Brain"},
	{"Career Champion", "Logged 50 hours of Career activities", "Briefcase"},
	{"Health Hero", "Logged 30 hours of Health activities", "Heart"},
	{"Social Butterfly", "Logged 20 hours of Social activities", "Users"},
}

// BadgeByName looks up a badge definition.
func BadgeByName(name string) (Badge, bool) {
	for _, b := range Badges {
		if b.Name == name {
			return b, true
		}
	}
	return Badge{}, false
}

// BadgeCheck holds everything a badge condition may inspect. History must
// include the triggering activity. LocalHour is the user's local hour (0-23)
// for timezone-aware badges, or -1 when the client did not send one, in
// which case the UTC hour of the activity is used.
type BadgeCheck struct {
	Activity  store.Activity
	History   []store.Activity
	LocalHour int
	Now       time.Time
	TZOffset  int
}

func (c BadgeCheck) hour() int {
	if c.LocalHour >= 0 && c.LocalHour <= 23 {
		return c.LocalHour
	}
	return c.Activity.Timestamp.Hour()
}

func (c BadgeCheck) categoryMinutes(category store.Category) int {
	total := 0
	for _, a := range c.History {
		if a.Category == category {
			total += a.DurationMinutes
		}
	}
	return total
}

var badgeConditions = map[string]func(BadgeCheck) bool{
	"First Steps": func(c BadgeCheck) bool {
		return len(c.History) == 1
	},
	"Night Owl": func(c BadgeCheck) bool {
		h := c.hour()
		return h >= 22 || h < 4
	},
	"Early Bird": func(c BadgeCheck) bool {
		return c.hour() < 7
	},
	"Weekend Warrior": func(c BadgeCheck) bool {
		day := c.Activity.Timestamp.Weekday()
		if day != time.Saturday && day != time.Sunday {
			return false
		}
		date := c.Activity.Timestamp.Truncate(24 * time.Hour)
		total := 0
		for _, a := range c.History {
			if a.Timestamp.Truncate(24 * time.Hour).Equal(date) {
				total += a.DurationMinutes
			}
		}
		return total >= 300 // 5 hours
	},
	"Iron Streak": func(c BadgeCheck) bool {
		if len(c.History) < 7 {
			return false
		}
		streak := CalculateStreak(c.History, c.Now, c.TZOffset)
		return streak.ActiveToday && streak.Current >= 7
	},
	"Centurion": func(c BadgeCheck) bool {
		return len(c.History) >= 100
	},
	"Focused Mind": func(c BadgeCheck) bool {
		count := 0
		for _, a := range c.History {
			if a.IsFocusSession {
				count++
			}
		}
		return count >= 10
	},
	"Career Champion": func(c BadgeCheck) bool {
		return c.categoryMinutes(store.CategoryCareer) >= 3000 // 50 hours
	},
	"Health Hero": func(c BadgeCheck) bool {
		return c.categoryMinutes(store.CategoryHealth) >= 1800 // 30 hours
	},
	"Social Butterfly": func(c BadgeCheck) bool {
		return c.categoryMinutes(store.CategorySocial) >= 1200 // 20 hours
	},
}

// EarnedBadges returns every badge whose condition holds for the given
// check, in definition order. Callers filter out already-owned badges via
// the store's idempotent grant.
func EarnedBadges(check BadgeCheck) []Badge {
	var earned []Badge
	for _, badge := range Badges {
		condition, ok := badgeConditions[badge.Name]
		if !ok {
			continue
		}
		if condition(check) {
			earned = append(earned, badge)
		}
	}
	return earned
}
