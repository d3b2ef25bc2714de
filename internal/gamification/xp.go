// Package gamification implements the XP, leveling, streak, badge, and
// chest-credit rules. Everything here is a pure function over activity
// history; persistence and HTTP concerns stay in the api and store packages.
package gamification

import "math"

// XPGain converts an activity's weighted productivity score into XP.
// 10 productivity points = 1 XP, minimum 1 XP for positive activities.
// Negative or zero scores award nothing.
func XPGain(productivityScore float64) int {
	if productivityScore <= 0 {
		return 0
	}
	gain := int(productivityScore / 10)
	if gain < 1 {
		return 1
	}
	return gain
}

// LevelForXP computes the level for a total XP amount.
//
// Formula: level = floor(sqrt(xp) * 0.2) + 1, which gives:
//   - Level 2: 25 XP
//   - Level 3: 100 XP
//   - Level 5: 400 XP
//   - Level 10: 2025 XP
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp))*0.2) + 1
}

// XPForLevel returns the total XP required to reach a level.
// Inverse of LevelForXP.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Pow(float64(level-1)/0.2, 2))
}

// LevelProgress describes where a user sits inside their current level.
type LevelProgress struct {
	Level          int     `json:"level"`
	XP             int     `json:"xp"`
	XPInLevel      int     `json:"xp_in_level"`
	XPForNextLevel int     `json:"xp_for_next_level"`
	ProgressPct    float64 `json:"progress_percent"`
	NextLevel      int     `json:"next_level"`
}

// LevelProgressFor computes detailed level progress for a total XP amount.
func LevelProgressFor(xp int) LevelProgress {
	level := LevelForXP(xp)
	levelXP := XPForLevel(level)
	nextXP := XPForLevel(level + 1)

	inLevel := xp - levelXP
	needed := nextXP - levelXP
	progress := 100.0
	if needed > 0 {
		progress = math.Round(float64(inLevel)/float64(needed)*1000) / 10
	}

	return LevelProgress{
		Level:          level,
		XP:             xp,
		XPInLevel:      inLevel,
		XPForNextLevel: needed,
		ProgressPct:    progress,
		NextLevel:      level + 1,
	}
}
