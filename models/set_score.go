package models

import "time"

// SetScore is the final score of one completed set. Rows are written when a
// set completes and only rewritten by a set correction.
type SetScore struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_set_scores_match_set,priority:1" json:"match_id"`
	SetNumber   int       `gorm:"not null;uniqueIndex:idx_set_scores_match_set,priority:2;check:set_number BETWEEN 1 AND 5" json:"set_number"`
	Team1Points int       `gorm:"not null" json:"team1_points"`
	Team2Points int       `gorm:"not null" json:"team2_points"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Winner is the side with strictly more points. Ties go to team2, matching
// how set tallies have always been counted.
func (s SetScore) Winner() Team {
	if s.Team1Points > s.Team2Points {
		return Team1
	}
	return Team2
}
