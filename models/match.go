// models/match.go
package models

import "time"

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	StatusInProgress MatchStatus = "IN_PROGRESS"
	StatusPaused     MatchStatus = "PAUSED"
	StatusCompleted  MatchStatus = "COMPLETED" // terminal
)

// Team tags one side of a match.
type Team string

const (
	Team1 Team = "team1"
	Team2 Team = "team2"
)

// Valid reports whether t names one of the two sides.
func (t Team) Valid() bool {
	return t == Team1 || t == Team2
}

// Match is a best-of-five volleyball match between two named teams.
// Scores are for the set being played; sets won are tallied separately and
// every finished set is kept as a SetScore row.
type Match struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Slug      string `gorm:"index" json:"slug"`
	Team1Name string `gorm:"not null" json:"team1_name"`
	Team2Name string `gorm:"not null" json:"team2_name"`

	// Current set
	Team1Score int `gorm:"not null;check:team1_score >= 0" json:"team1_score"`
	Team2Score int `gorm:"not null;check:team2_score >= 0" json:"team2_score"`

	// Sets won
	Team1Sets  int `gorm:"not null;check:team1_sets BETWEEN 0 AND 3" json:"team1_sets"`
	Team2Sets  int `gorm:"not null;check:team2_sets BETWEEN 0 AND 3" json:"team2_sets"`
	CurrentSet int `gorm:"not null;check:current_set BETWEEN 1 AND 5" json:"current_set"`

	Status MatchStatus `gorm:"type:varchar(16);not null;index;check:status IN ('IN_PROGRESS','PAUSED','COMPLETED')" json:"status"`

	// Undo bookkeeping: who scored the latest point of the current set (nil when unknown)
	// and whether the single undo credit has been spent since.
	LastScoringTeam *Team      `gorm:"type:varchar(8)" json:"last_scoring_team"`
	LastScoreTime   *time.Time `json:"last_score_time,omitempty"`
	UndoUsed        bool       `gorm:"not null" json:"undo_used"`

	// Persisted form of Owner. Only SetOwner writes these.
	OwnerAccountID      *string `gorm:"type:uuid;index;check:chk_matches_single_owner,(owner_account_id IS NULL) <> (owner_guest_session_id IS NULL)" json:"-"`
	OwnerGuestSessionID *string `gorm:"type:uuid;index" json:"-"`

	Sets []SetScore `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE" json:"sets"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SetFor returns the recorded set with the given number.
func (m *Match) SetFor(setNumber int) (*SetScore, bool) {
	for i := range m.Sets {
		if m.Sets[i].SetNumber == setNumber {
			return &m.Sets[i], true
		}
	}
	return nil, false
}
