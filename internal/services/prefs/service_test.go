package prefs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

type fakePrefRepo struct {
	rows map[uuid.UUID]*models.UserPreference
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{rows: make(map[uuid.UUID]*models.UserPreference)}
}

func (r *fakePrefRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (*models.UserPreference, error) {
	if p, ok := r.rows[userID]; ok {
		return p, nil
	}
	p := &models.UserPreference{
		UserID:          userID,
		ShowSleep:       true,
		ShowExercise:    true,
		ShowWorkTime:    true,
		ShowFocus:       true,
		ShowStress:      true,
		ShowSleepStages: true,
		DefaultViewTab:  "activity",
	}
	r.rows[userID] = p
	return p, nil
}

func (r *fakePrefRepo) Update(_ context.Context, pref *models.UserPreference) error {
	r.rows[pref.UserID] = pref
	return nil
}

func TestGetCreatesDefaults(t *testing.T) {
	svc := NewService(newFakePrefRepo())

	p, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, p.ShowSleep)
	assert.True(t, p.ShowSleepStages)
	assert.Equal(t, "activity", p.DefaultViewTab)
	assert.Equal(t, []string{}, p.HiddenCards)
}

func TestUpdateReplacesToggles(t *testing.T) {
	svc := NewService(newFakePrefRepo())
	userID := uuid.New()

	p, err := svc.Update(context.Background(), userID, &schemas.Preferences{
		ShowSleep:      true,
		ShowStress:     false,
		HiddenCards:    []string{"body_battery", "spo2"},
		DefaultViewTab: "health",
	})
	require.NoError(t, err)
	assert.True(t, p.ShowSleep)
	assert.False(t, p.ShowStress)
	assert.False(t, p.ShowExercise)
	assert.Equal(t, "health", p.DefaultViewTab)
	assert.Equal(t, []string{"body_battery", "spo2"}, p.HiddenCards)

	// Empty tab keeps the previous value.
	p, err = svc.Update(context.Background(), userID, &schemas.Preferences{ShowSleep: true})
	require.NoError(t, err)
	assert.Equal(t, "health", p.DefaultViewTab)
}

func TestUpdateHiddenCardsOnly(t *testing.T) {
	repo := newFakePrefRepo()
	svc := NewService(repo)
	userID := uuid.New()

	_, err := svc.Update(context.Background(), userID, &schemas.Preferences{
		ShowSleep:      true,
		DefaultViewTab: "health",
	})
	require.NoError(t, err)

	cards, err := svc.UpdateHiddenCards(context.Background(), userID, []string{"steps"})
	require.NoError(t, err)
	assert.Equal(t, []string{"steps"}, cards)

	// Toggles and tab are untouched.
	p, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, p.ShowSleep)
	assert.Equal(t, "health", p.DefaultViewTab)
	assert.Equal(t, []string{"steps"}, p.HiddenCards)
}

func TestHiddenCardsEncoding(t *testing.T) {
	assert.Equal(t, "", encodeCards(nil))
	assert.Equal(t, "", encodeCards([]string{}))
	assert.Equal(t, `["a","b"]`, encodeCards([]string{"a", "b"}))

	assert.Equal(t, []string{}, decodeCards(""))
	assert.Equal(t, []string{}, decodeCards("not json"))
	assert.Equal(t, []string{"a", "b"}, decodeCards(`["a","b"]`))
}
