package gamification

import (
	"testing"
	"time"

	"github.com/focusflow/focusflow/internal/store"
)

func badgeNames(badges []Badge) map[string]bool {
	names := make(map[string]bool, len(badges))
	for _, b := range badges {
		names[b.Name] = true
	}
	return names
}

func TestEarnedBadges_FirstSteps(t *testing.T) {
	activity := activityOn(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	earned := EarnedBadges(BadgeCheck{
		Activity:  activity,
		History:   []store.Activity{activity},
		LocalHour: -1,
		Now:       activity.Timestamp,
	})

	names := badgeNames(earned)
	if !names["First Steps"] {
		t.Error("Expected First Steps on the first activity")
	}
	if names["Centurion"] {
		t.Error("Did not expect Centurion on the first activity")
	}
}

func TestEarnedBadges_NightOwlByUTCHour(t *testing.T) {
	activity := activityOn(time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))
	earned := EarnedBadges(BadgeCheck{
		Activity:  activity,
		History:   []store.Activity{activity},
		LocalHour: -1,
		Now:       activity.Timestamp,
	})
	if !badgeNames(earned)["Night Owl"] {
		t.Error("Expected Night Owl at 23:00")
	}
}

func TestEarnedBadges_LocalHourOverridesUTC(t *testing.T) {
	// 02:00 UTC but 06:00 local: Early Bird, not Night Owl.
	activity := activityOn(time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC))
	earned := EarnedBadges(BadgeCheck{
		Activity:  activity,
		History:   []store.Activity{activity},
		LocalHour: 6,
		Now:       activity.Timestamp,
	})

	names := badgeNames(earned)
	if !names["Early Bird"] {
		t.Error("Expected Early Bird for local hour 6")
	}
	if names["Night Owl"] {
		t.Error("Did not expect Night Owl when local hour is 6")
	}
}

func TestEarnedBadges_Centurion(t *testing.T) {
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	history := make([]store.Activity, 100)
	for i := range history {
		history[i] = activityOn(ts.Add(-time.Duration(i) * time.Hour))
	}

	earned := EarnedBadges(BadgeCheck{
		Activity:  history[0],
		History:   history,
		LocalHour: -1,
		Now:       ts,
	})
	if !badgeNames(earned)["Centurion"] {
		t.Error("Expected Centurion at 100 activities")
	}
}

func TestEarnedBadges_FocusedMind(t *testing.T) {
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	history := make([]store.Activity, 10)
	for i := range history {
		a := activityOn(ts.Add(-time.Duration(i) * time.Hour))
		a.IsFocusSession = true
		history[i] = a
	}

	earned := EarnedBadges(BadgeCheck{Activity: history[0], History: history, LocalHour: -1, Now: ts})
	if !badgeNames(earned)["Focused Mind"] {
		t.Error("Expected Focused Mind at 10 focus sessions")
	}
}

func TestEarnedBadges_WeekendWarrior(t *testing.T) {
	// 2026-03-14 is a Saturday.
	saturday := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	var history []store.Activity
	for i := 0; i < 6; i++ {
		a := activityOn(saturday.Add(time.Duration(i) * time.Hour))
		a.DurationMinutes = 60
		history = append(history, a)
	}

	earned := EarnedBadges(BadgeCheck{Activity: history[5], History: history, LocalHour: -1, Now: saturday})
	if !badgeNames(earned)["Weekend Warrior"] {
		t.Error("Expected Weekend Warrior after 6 hours on a Saturday")
	}

	// Same volume on a Tuesday earns nothing
	tuesday := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	var weekday []store.Activity
	for i := 0; i < 6; i++ {
		a := activityOn(tuesday.Add(time.Duration(i) * time.Hour))
		a.DurationMinutes = 60
		weekday = append(weekday, a)
	}
	earned = EarnedBadges(BadgeCheck{Activity: weekday[5], History: weekday, LocalHour: -1, Now: tuesday})
	if badgeNames(earned)["Weekend Warrior"] {
		t.Error("Did not expect Weekend Warrior on a Tuesday")
	}
}

func TestEarnedBadges_IronStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	var history []store.Activity
	for i := 0; i < 7; i++ {
		history = append(history, activityOn(now.AddDate(0, 0, -i)))
	}

	earned := EarnedBadges(BadgeCheck{Activity: history[0], History: history, LocalHour: -1, Now: now})
	if !badgeNames(earned)["Iron Streak"] {
		t.Error("Expected Iron Streak after 7 consecutive days")
	}

	// A 6-day run is not enough
	earned = EarnedBadges(BadgeCheck{Activity: history[0], History: history[:6], LocalHour: -1, Now: now})
	if badgeNames(earned)["Iron Streak"] {
		t.Error("Did not expect Iron Streak after 6 days")
	}
}

func TestEarnedBadges_CategoryHours(t *testing.T) {
	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	career := make([]store.Activity, 25)
	for i := range career {
		a := activityOn(ts.Add(-time.Duration(i) * time.Hour))
		a.DurationMinutes = 120 // 25 * 2h = 50 hours
		career[i] = a
	}
	earned := EarnedBadges(BadgeCheck{Activity: career[0], History: career, LocalHour: -1, Now: ts})
	if !badgeNames(earned)["Career Champion"] {
		t.Error("Expected Career Champion at 50 Career hours")
	}

	social := make([]store.Activity, 10)
	for i := range social {
		a := activityOn(ts.Add(-time.Duration(i) * time.Hour))
		a.Category = store.CategorySocial
		a.DurationMinutes = 120 // 20 hours
		social[i] = a
	}
	earned = EarnedBadges(BadgeCheck{Activity: social[0], History: social, LocalHour: -1, Now: ts})
	if !badgeNames(earned)["Social Butterfly"] {
		t.Error("Expected Social Butterfly at 20 Social hours")
	}
	if badgeNames(earned)["Career Champion"] {
		t.Error("Did not expect Career Champion with no Career time")
	}
}

func TestBadgeByName(t *testing.T) {
	badge, ok := BadgeByName("Iron Streak")
	if !ok {
		t.Fatal("Expected Iron Streak to exist")
	}
	if badge.Icon != "Flame" {
		t.Errorf("Expected Flame icon, got %s", badge.Icon)
	}

	if _, ok := BadgeByName("Unknown"); ok {
		t.Error("Expected lookup miss for unknown badge")
	}
}

func TestBadges_AllHaveConditions(t *testing.T) {
	for _, badge := range Badges {
		if _, ok := badgeConditions[badge.Name]; !ok {
			t.Errorf("Badge %q has no condition", badge.Name)
		}
	}
}
