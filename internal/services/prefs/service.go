// Package prefs manages per-user dashboard preferences.
package prefs

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

type PrefRepo interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error)
	Update(ctx context.Context, pref *models.UserPreference) error
}

type Service struct {
	prefs PrefRepo
}

func NewService(prefs PrefRepo) *Service {
	return &Service{prefs: prefs}
}

// Get returns the user's preferences, creating the default row on first
// access.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*schemas.Preferences, error) {
	pref, err := s.prefs.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toSchema(pref), nil
}

// Update replaces the whole preference set.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, in *schemas.Preferences) (*schemas.Preferences, error) {
	pref, err := s.prefs.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	pref.ShowSleep = in.ShowSleep
	pref.ShowExercise = in.ShowExercise
	pref.ShowWorkTime = in.ShowWorkTime
	pref.ShowFocus = in.ShowFocus
	pref.ShowStress = in.ShowStress
	pref.ShowSleepStages = in.ShowSleepStages
	pref.HiddenCards = encodeCards(in.HiddenCards)
	if in.DefaultViewTab != "" {
		pref.DefaultViewTab = in.DefaultViewTab
	}

	if err := s.prefs.Update(ctx, pref); err != nil {
		return nil, err
	}
	return toSchema(pref), nil
}

// UpdateHiddenCards replaces only the hidden-card list.
func (s *Service) UpdateHiddenCards(ctx context.Context, userID uuid.UUID, cards []string) ([]string, error) {
	pref, err := s.prefs.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	pref.HiddenCards = encodeCards(cards)
	if err := s.prefs.Update(ctx, pref); err != nil {
		return nil, err
	}
	return decodeCards(pref.HiddenCards), nil
}

func toSchema(pref *models.UserPreference) *schemas.Preferences {
	return &schemas.Preferences{
		ShowSleep:       pref.ShowSleep,
		ShowExercise:    pref.ShowExercise,
		ShowWorkTime:    pref.ShowWorkTime,
		ShowFocus:       pref.ShowFocus,
		ShowStress:      pref.ShowStress,
		ShowSleepStages: pref.ShowSleepStages,
		HiddenCards:     decodeCards(pref.HiddenCards),
		DefaultViewTab:  pref.DefaultViewTab,
	}
}

// Hidden cards are stored as a JSON array in a text column.
func encodeCards(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	buf, err := json.Marshal(cards)
	if err != nil {
		return ""
	}
	return string(buf)
}

func decodeCards(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var cards []string
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return []string{}
	}
	return cards
}
