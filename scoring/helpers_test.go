package scoring

import (
	"testing"
	"time"

	"volleyball-scoretracker/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)

func newTestMatch() *models.Match {
	m := &models.Match{
		ID:         uuid.NewString(),
		Team1Name:  gofakeit.Company(),
		Team2Name:  gofakeit.Company(),
		CurrentSet: 1,
		Status:     models.StatusInProgress,
	}
	m.SetOwner(models.GuestOwner{SessionID: uuid.NewString()})
	return m
}

// scoreN awards n consecutive points to team and returns the last outcome.
func scoreN(t *testing.T, m *models.Match, team models.Team, n int) Outcome {
	t.Helper()
	var out Outcome
	for i := 0; i < n; i++ {
		var err error
		out, err = ScorePoint(m, team, testNow)
		require.NoError(t, err)
	}
	return out
}

// winSet plays a 25-0 (or 15-0) set for team.
func winSet(t *testing.T, m *models.Match, team models.Team) Outcome {
	t.Helper()
	return scoreN(t, m, team, PointsToWin(m.CurrentSet))
}
