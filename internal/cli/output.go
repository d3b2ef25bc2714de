package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/focusflow/focusflow/internal/client"
	"github.com/focusflow/focusflow/internal/gamification"
	"github.com/focusflow/focusflow/internal/loot"
	"github.com/focusflow/focusflow/internal/store"
)

// OutputFormat specifies the output format for CLI commands
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// PrintActivities outputs a list of activities in the specified format
func PrintActivities(activities []store.Activity, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(map[string][]store.Activity{"activities": activities})
	case FormatYAML:
		return printYAML(activities)
	case FormatTable:
		return printActivitiesTable(activities)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintDashboard outputs the daily dashboard in the specified format
func PrintDashboard(dashboard *client.Dashboard, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(dashboard)
	case FormatYAML:
		return printYAML(dashboard)
	case FormatTable:
		return printDashboardTable(dashboard)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintHeatmap outputs the activity heatmap in the specified format.
// The table form only lists days with at least one activity.
func PrintHeatmap(heatmap *client.Heatmap, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(heatmap)
	case FormatYAML:
		return printYAML(heatmap)
	case FormatTable:
		return printHeatmapTable(heatmap)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintRecap outputs the weekly recap in the specified format
func PrintRecap(recap *client.WeeklyRecap, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(recap)
	case FormatYAML:
		return printYAML(recap)
	case FormatTable:
		return printRecapTable(recap)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintCollection outputs the item collection in the specified format
func PrintCollection(collection *client.Collection, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(collection)
	case FormatYAML:
		return printYAML(collection)
	case FormatTable:
		return printCollectionTable(collection)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintItems outputs the item catalog in the specified format
func PrintItems(items []loot.Item, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(map[string][]loot.Item{"items": items})
	case FormatYAML:
		return printYAML(items)
	case FormatTable:
		return printItemsTable(items)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// PrintChestStatus outputs chest eligibility in the specified format
func PrintChestStatus(status *gamification.Eligibility, credits int, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(map[string]any{"credits": credits, "status": status})
	case FormatYAML:
		return printYAML(map[string]any{"credits": credits, "status": status})
	case FormatTable:
		if status.Eligible {
			fmt.Println("Chest unlocked! Open it with 'focusflow chest'.")
		} else {
			fmt.Printf("Locked: %.1fh productive today, %.1fh needed (%.1fh to go)\n",
				status.ProductiveHours, status.RequiredHours, status.RemainingHours)
		}
		fmt.Printf("Chest credits: %d\n", credits)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func printJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printActivitiesTable(activities []store.Activity) error {
	table := tablewriter.NewWriter(os.Stdout)

	table.Header("ID", "Time", "Activity", "Category", "Minutes", "Score")

	for _, activity := range activities {
		name := activity.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}

		table.Append(
			fmt.Sprintf("%d", activity.ID),
			activity.Timestamp.Format("2006-01-02 15:04"),
			name,
			string(activity.Category),
			fmt.Sprintf("%d", activity.DurationMinutes),
			fmt.Sprintf("%.1f", activity.ProductivityScore),
		)
	}

	return table.Render()
}

func printDashboardTable(dashboard *client.Dashboard) error {
	fmt.Printf("Dashboard for %s\n\n", dashboard.Date)
	fmt.Printf("Level %d (%d XP, %d/%d to level %d)\n",
		dashboard.Level, dashboard.XP,
		dashboard.LevelProgress.XPInLevel, dashboard.LevelProgress.XPForNextLevel,
		dashboard.LevelProgress.NextLevel)
	fmt.Printf("Daily score: %.1f across %d activities\n", dashboard.DailyScore, dashboard.ActivityCount)
	if dashboard.Streak.Current > 0 {
		fmt.Printf("Streak: %d days (longest %d)\n", dashboard.Streak.Current, dashboard.Streak.Longest)
	}

	if len(dashboard.CategoryBreakdown) == 0 {
		return nil
	}
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Category", "Minutes", "Activities")

	for _, name := range sortedCategories(dashboard.CategoryBreakdown) {
		stat := dashboard.CategoryBreakdown[name]
		table.Append(name, fmt.Sprintf("%d", stat.Minutes), fmt.Sprintf("%d", stat.Count))
	}

	return table.Render()
}

func printHeatmapTable(heatmap *client.Heatmap) error {
	table := tablewriter.NewWriter(os.Stdout)

	table.Header("Date", "Activities", "Score")

	for _, entry := range heatmap.Data {
		if entry.Count == 0 {
			continue
		}
		table.Append(
			entry.Date,
			fmt.Sprintf("%d", entry.Count),
			fmt.Sprintf("%.1f", entry.Score),
		)
	}

	return table.Render()
}

func printRecapTable(recap *client.WeeklyRecap) error {
	fmt.Printf("Week %s to %s\n\n", recap.WeekStart, recap.WeekEnd)
	fmt.Printf("Activities: %d (%.1f hours, total score %.1f)\n",
		recap.TotalActivities, recap.TotalHours, recap.TotalScore)
	if recap.TrendVsPrevious != 0 {
		fmt.Printf("Trend vs previous week: %+.1f%%\n", recap.TrendVsPrevious)
	}
	if recap.TopDay != nil {
		fmt.Printf("Best day: %s (score %.1f)\n", recap.TopDay.Date, recap.TopDay.Score)
	}
	if recap.StreakMax > 0 {
		fmt.Printf("Longest streak this week: %d days\n", recap.StreakMax)
	}
	for _, badge := range recap.BadgesEarned {
		fmt.Printf("Badge earned: %s (%s)\n", badge.Name, badge.Description)
	}

	if len(recap.CategoryBreakdown) == 0 {
		return nil
	}
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Category", "Minutes", "Activities")

	for _, name := range sortedCategories(recap.CategoryBreakdown) {
		stat := recap.CategoryBreakdown[name]
		table.Append(name, fmt.Sprintf("%d", stat.Minutes), fmt.Sprintf("%d", stat.Count))
	}

	return table.Render()
}

func printCollectionTable(collection *client.Collection) error {
	fmt.Printf("Collection: %d/%d items", collection.OwnedCount, collection.TotalItems)
	if collection.BrokenCount > 0 {
		fmt.Printf(" (%d broken)", collection.BrokenCount)
	}
	fmt.Printf(", %d chest credits\n\n", collection.ChestCredits)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Item", "Rarity", "Count", "Status")

	for _, item := range collection.AllItems {
		count := "-"
		status := "missing"
		if item.Owned {
			count = fmt.Sprintf("%d", item.Count)
			status = "ok"
			if item.IsBroken {
				status = "broken"
			}
		}

		table.Append(
			fmt.Sprintf("%d", item.ID),
			item.Name,
			string(item.Rarity),
			count,
			status,
		)
	}

	if err := table.Render(); err != nil {
		return err
	}

	// Repair wants the owned-item id, not the catalog id
	for _, owned := range collection.OwnedItems {
		if owned.Broken {
			fmt.Printf("Broken: %s, repair with 'focusflow repair %d'\n", owned.Item.Name, owned.ID)
		}
	}

	return nil
}

func printItemsTable(items []loot.Item) error {
	table := tablewriter.NewWriter(os.Stdout)

	table.Header("ID", "Name", "Rarity", "Description")

	for _, item := range items {
		description := item.Description
		if len(description) > 50 {
			description = description[:47] + "..."
		}

		table.Append(
			fmt.Sprintf("%d", item.ID),
			item.Name,
			string(item.Rarity),
			description,
		)
	}

	return table.Render()
}

// sortedCategories returns breakdown keys ordered by minutes descending,
// name ascending on ties, so tables read top-down by time spent.
func sortedCategories(breakdown map[string]client.CategoryStat) []string {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := breakdown[names[i]], breakdown[names[j]]
		if a.Minutes != b.Minutes {
			return a.Minutes > b.Minutes
		}
		return names[i] < names[j]
	})
	return names
}
