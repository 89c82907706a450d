// Package dashboard aggregates health and work data into the views the
// frontend renders: per-day trends, a family overview and a compact summary.
package dashboard

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/internal/errs"
	"github.com/lifehubapp/lifehub/internal/schemas"
	"github.com/lifehubapp/lifehub/pkg/db/models"
)

type HealthRepo interface {
	GetByDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.HealthMetric, error)
	Range(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.HealthMetric, error)
}

type WorkRepo interface {
	Range(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]models.WorkMetric, error)
}

type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type Service struct {
	health HealthRepo
	work   WorkRepo
	users  UserRepo
}

func NewService(health HealthRepo, work WorkRepo, users UserRepo) *Service {
	return &Service{health: health, work: work, users: users}
}

// workDay is the aggregate of one user's heartbeat packets for one day.
type workDay struct {
	totalMinutes *int
	avgFocus     *float64
}

// Trends returns one point per day in [start, end] for the user, combining
// the day's health row with aggregated work packets. Days without data still
// produce a point so charts keep a continuous x axis.
func (s *Service) Trends(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]schemas.DailyTrendPoint, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	healthRows, err := s.health.Range(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	healthByDay := make(map[string]*models.HealthMetric, len(healthRows))
	for i := range healthRows {
		healthByDay[dayKey(healthRows[i].Date)] = &healthRows[i]
	}

	workRows, err := s.work.Range(ctx, userID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	workByDay := aggregateWork(workRows)

	var points []schemas.DailyTrendPoint
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		point := schemas.DailyTrendPoint{
			Date:     day,
			UserID:   user.ID.String(),
			UserName: user.Name,
		}
		if h := healthByDay[dayKey(day)]; h != nil {
			fillHealth(&point, h)
		}
		if w, ok := workByDay[dayKey(day)]; ok {
			point.TotalWorkMinutes = w.totalMinutes
			point.AvgFocusScore = w.avgFocus
		}
		points = append(points, point)
	}
	return points, nil
}

// Overview returns the target day's snapshot for every active family member.
func (s *Service) Overview(ctx context.Context, day time.Time) ([]schemas.OverviewMetric, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	metrics := make([]schemas.OverviewMetric, 0, len(users))
	for i := range users {
		metric, err := s.userOverview(ctx, &users[i], day)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, *metric)
	}
	return metrics, nil
}

// UserOverview returns the target day's snapshot for one user.
func (s *Service) UserOverview(ctx context.Context, userID uuid.UUID, day time.Time) (*schemas.OverviewMetric, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userOverview(ctx, user, day)
}

func (s *Service) userOverview(ctx context.Context, user *models.User, day time.Time) (*schemas.OverviewMetric, error) {
	metric := &schemas.OverviewMetric{
		UserID:   user.ID.String(),
		UserName: user.Name,
	}

	health, err := s.health.GetByDate(ctx, user.ID, day)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if health != nil {
		metric.SleepHours = health.SleepHours
		metric.LightSleepHours = health.LightSleepHours
		metric.DeepSleepHours = health.DeepSleepHours
		metric.RemSleepHours = health.RemSleepHours
		metric.ExerciseMinutes = health.ExerciseMinutes
		metric.StressLevel = health.StressLevel
		metric.Steps = health.Steps
		metric.Calories = health.Calories
		metric.DistanceKm = health.DistanceKm
		metric.BodyBattery = health.BodyBattery
		metric.SpO2 = health.SpO2
		metric.RespirationRate = health.RespirationRate
		metric.RestingHeartRate = health.RestingHeartRate
		metric.SleepScore = health.SleepScore
	}

	work, err := s.workForDay(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	metric.TotalWorkMinutes = work.totalMinutes
	metric.AvgFocusScore = work.avgFocus
	return metric, nil
}

// Summary returns the caller's core numbers for the dashboard header.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID, day time.Time) (*schemas.SummaryResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &schemas.SummaryResponse{}
	resp.Body.Date = day
	resp.Body.UserID = user.ID.String()
	resp.Body.UserName = user.Name
	resp.Body.Avatar = user.Avatar

	health, err := s.health.GetByDate(ctx, userID, day)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if health != nil {
		resp.Body.Metrics.SleepHours = health.SleepHours
		resp.Body.Metrics.Steps = health.Steps
		resp.Body.Metrics.Calories = health.Calories
		resp.Body.Metrics.StressLevel = health.StressLevel
	}

	work, err := s.workForDay(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if work.totalMinutes != nil {
		hours := math.Round(float64(*work.totalMinutes)/60*10) / 10
		resp.Body.Metrics.WorkHours = &hours
	}
	return resp, nil
}

func (s *Service) workForDay(ctx context.Context, userID uuid.UUID, day time.Time) (workDay, error) {
	rows, err := s.work.Range(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return workDay{}, err
	}
	agg := aggregateWork(rows)
	if w, ok := agg[dayKey(day)]; ok {
		return w, nil
	}
	return workDay{}, nil
}

// fillHealth copies the day's health row into a trend point.
func fillHealth(point *schemas.DailyTrendPoint, h *models.HealthMetric) {
	point.SleepHours = h.SleepHours
	point.LightSleepHours = h.LightSleepHours
	point.DeepSleepHours = h.DeepSleepHours
	point.RemSleepHours = h.RemSleepHours
	point.ExerciseMinutes = h.ExerciseMinutes
	point.StressLevel = h.StressLevel
	point.Steps = h.Steps
	point.Calories = h.Calories
	point.DistanceKm = h.DistanceKm
	point.BodyBattery = h.BodyBattery
	point.SpO2 = h.SpO2
	point.RespirationRate = h.RespirationRate
	point.RestingHeartRate = h.RestingHeartRate
	point.SleepScore = h.SleepScore
}

// aggregateWork buckets heartbeat packets by calendar day, summing screen
// time and averaging focus scores.
func aggregateWork(rows []models.WorkMetric) map[string]workDay {
	type acc struct {
		minutes   int
		hasMin    bool
		focusSum  int
		focusRows int
	}
	byDay := make(map[string]*acc)
	for i := range rows {
		key := dayKey(rows[i].Timestamp)
		a := byDay[key]
		if a == nil {
			a = &acc{}
			byDay[key] = a
		}
		if rows[i].ScreenTimeMinutes != nil {
			a.minutes += *rows[i].ScreenTimeMinutes
			a.hasMin = true
		}
		if rows[i].FocusScore != nil {
			a.focusSum += *rows[i].FocusScore
			a.focusRows++
		}
	}

	out := make(map[string]workDay, len(byDay))
	for key, a := range byDay {
		var w workDay
		if a.hasMin {
			minutes := a.minutes
			w.totalMinutes = &minutes
		}
		if a.focusRows > 0 {
			focus := math.Round(float64(a.focusSum)/float64(a.focusRows)*10) / 10
			w.avgFocus = &focus
		}
		out[key] = w
	}
	return out
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
