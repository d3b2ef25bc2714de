package gamification

import (
	"sort"
	"time"

	"github.com/focusflow/focusflow/internal/store"
)

// Streak summarizes consecutive-day activity.
type Streak struct {
	Current     int  `json:"current_streak"`
	Longest     int  `json:"longest_streak"`
	ActiveToday bool `json:"active_today"`
}

// localDate converts a UTC timestamp to the user's local calendar date.
// tzOffsetMinutes is positive for zones behind UTC (EST sends 300), so the
// local time is the UTC time minus the offset.
func localDate(t time.Time, tzOffsetMinutes int) time.Time {
	local := t.Add(-time.Duration(tzOffsetMinutes) * time.Minute)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// CalculateStreak computes current and longest consecutive-day streaks over
// the user's full history. The current streak counts runs ending today; a
// run that ended yesterday still counts until today's first activity is due,
// so logging daily never shows a zero before the day's first entry.
func CalculateStreak(activities []store.Activity, now time.Time, tzOffsetMinutes int) Streak {
	if len(activities) == 0 {
		return Streak{}
	}

	seen := make(map[time.Time]bool, len(activities))
	for _, a := range activities {
		seen[localDate(a.Timestamp, tzOffsetMinutes)] = true
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	longest, run := 1, 1
	for i := 1; i < len(dates); i++ {
		if dates[i].Sub(dates[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	today := localDate(now, tzOffsetMinutes)
	activeToday := seen[today]

	// Walk back from today (or yesterday when today has no entry yet).
	anchor := today
	if !activeToday {
		anchor = today.AddDate(0, 0, -1)
	}
	current := 0
	for d := anchor; seen[d]; d = d.AddDate(0, 0, -1) {
		current++
	}

	return Streak{Current: current, Longest: longest, ActiveToday: activeToday}
}
