package garmin

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifehubapp/lifehub/pkg/db/models"
)

// mapDay converts one day of provider payloads into a HealthMetric. Fields
// the provider did not report stay nil so the merge step can tell "no data"
// apart from zero. Precedence between field variants follows the deployments:
// detailed sleep data beats the summary's sleep seconds, and the
// international field name beats the garmin.cn one when both appear.
func mapDay(userID uuid.UUID, day time.Time, data *DayData) *models.HealthMetric {
	m := &models.HealthMetric{
		UserID: userID,
		Date:   day,
	}
	if data == nil {
		return m
	}

	if s := data.Summary; s != nil {
		switch {
		case s.SleepSeconds != nil:
			m.SleepHours = hoursOf(*s.SleepSeconds)
		case s.SleepingSeconds != nil:
			m.SleepHours = hoursOf(*s.SleepingSeconds)
		}

		m.RestingHeartRate = s.RestingHeartRate

		switch {
		case s.AverageStressLevel != nil:
			m.StressLevel = s.AverageStressLevel
		case s.MaxStressLevel != nil:
			m.StressLevel = s.MaxStressLevel
		}

		moderate, vigorous := 0, 0
		if s.ModerateIntensityMinutes != nil {
			moderate = *s.ModerateIntensityMinutes
		}
		if s.VigorousIntensityMinutes != nil {
			vigorous = *s.VigorousIntensityMinutes
		}
		if moderate > 0 || vigorous > 0 {
			total := moderate + vigorous
			m.ExerciseMinutes = &total
		}

		switch {
		case s.TotalSteps != nil:
			m.Steps = s.TotalSteps
		case s.Steps != nil:
			m.Steps = s.Steps
		}

		switch {
		case s.TotalKilocalories != nil:
			m.Calories = intOf(*s.TotalKilocalories)
		case s.Kilocalories != nil:
			m.Calories = intOf(*s.Kilocalories)
		}

		if s.TotalDistanceMeters != nil {
			km := *s.TotalDistanceMeters / 1000
			m.DistanceKm = &km
		}

		switch {
		case s.BodyBatteryMostRecent != nil:
			m.BodyBattery = s.BodyBatteryMostRecent
		case s.BodyBatteryHighest != nil:
			m.BodyBattery = s.BodyBatteryHighest
		}

		m.SpO2 = s.AverageSpO2
		m.RespirationRate = s.AvgWakingRespiration
	}

	if data.Sleep != nil && data.Sleep.DailySleepDTO != nil {
		dto := data.Sleep.DailySleepDTO
		if dto.SleepTimeSeconds != nil {
			m.SleepHours = hoursOf(*dto.SleepTimeSeconds)
		}
		if dto.DeepSleepSeconds != nil {
			m.DeepSleepHours = hoursOf(*dto.DeepSleepSeconds)
		}
		if dto.LightSleepSeconds != nil {
			m.LightSleepHours = hoursOf(*dto.LightSleepSeconds)
		}
		if dto.RemSleepSeconds != nil {
			m.RemSleepHours = hoursOf(*dto.RemSleepSeconds)
		}
		if dto.SleepScores != nil && dto.SleepScores.Overall != nil {
			m.SleepScore = dto.SleepScores.Overall.Value
		}
	}

	return m
}

func hoursOf(seconds int) *float64 {
	h := float64(seconds) / 3600
	return &h
}

func intOf(f float64) *int {
	i := int(f)
	return &i
}
