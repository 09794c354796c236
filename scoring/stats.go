package scoring

import "volleyball-scoretracker/models"

// Statistics counts a caller's matches by status. Paused matches have their
// own bucket and are not counted as active.
type Statistics struct {
	TotalMatches     int `json:"total_matches"`
	CompletedMatches int `json:"completed_matches"`
	ActiveMatches    int `json:"active_matches"`
	PausedMatches    int `json:"paused_matches"`
}

// Aggregate folds matches into Statistics in a single pass.
func Aggregate(matches []models.Match) Statistics {
	var stats Statistics
	for _, m := range matches {
		stats.TotalMatches++
		switch m.Status {
		case models.StatusCompleted:
			stats.CompletedMatches++
		case models.StatusInProgress:
			stats.ActiveMatches++
		case models.StatusPaused:
			stats.PausedMatches++
		}
	}
	return stats
}
