package garmin

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func testDay() time.Time        { return time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC) }

func TestMapDayNilPayloadHasNoData(t *testing.T) {
	m := mapDay(uuid.New(), testDay(), nil)
	assert.False(t, m.HasData())

	m = mapDay(uuid.New(), testDay(), &DayData{})
	assert.False(t, m.HasData())
}

func TestMapDaySleepFieldPrecedence(t *testing.T) {
	// International field beats the garmin.cn variant.
	m := mapDay(uuid.New(), testDay(), &DayData{Summary: &DailySummary{
		SleepSeconds:    intp(8 * 3600),
		SleepingSeconds: intp(4 * 3600),
	}})
	require.NotNil(t, m.SleepHours)
	assert.InDelta(t, 8.0, *m.SleepHours, 0.001)

	// The garmin.cn variant is used when it is the only one present.
	m = mapDay(uuid.New(), testDay(), &DayData{Summary: &DailySummary{
		SleepingSeconds: intp(6 * 3600),
	}})
	require.NotNil(t, m.SleepHours)
	assert.InDelta(t, 6.0, *m.SleepHours, 0.001)
}

func TestMapDayDetailedSleepOverridesSummary(t *testing.T) {
	m := mapDay(uuid.New(), testDay(), &DayData{
		Summary: &DailySummary{SleepSeconds: intp(5 * 3600)},
		Sleep: &SleepData{DailySleepDTO: &SleepDTO{
			SleepTimeSeconds:  intp(7 * 3600),
			DeepSleepSeconds:  intp(3600),
			LightSleepSeconds: intp(4 * 3600),
			RemSleepSeconds:   intp(2 * 3600),
		}},
	})
	require.NotNil(t, m.SleepHours)
	assert.InDelta(t, 7.0, *m.SleepHours, 0.001)
	require.NotNil(t, m.DeepSleepHours)
	assert.InDelta(t, 1.0, *m.DeepSleepHours, 0.001)
	require.NotNil(t, m.LightSleepHours)
	assert.InDelta(t, 4.0, *m.LightSleepHours, 0.001)
	require.NotNil(t, m.RemSleepHours)
	assert.InDelta(t, 2.0, *m.RemSleepHours, 0.001)
}

func TestMapDayStressPrecedence(t *testing.T) {
	m := mapDay(uuid.New(), testDay(), &DayData{Summary: &DailySummary{
		AverageStressLevel: intp(30),
		MaxStressLevel:     intp(80),
	}})
	require.NotNil(t, m.StressLevel)
	assert.Equal(t, 30, *m.StressLevel)

	m = mapDay(uuid.New(), testDay(), &DayData{Summary: &DailySummary{
		MaxStressLevel: intp(80),
	}})
	require.NotNil(t, m.StressLevel)
	assert.Equal(t, 80, *m.StressLevel)
}

func TestMapDayIntensityMinutesSum(t *testing.T) {
	m := mapDay(uuid.New(), testDay(), &DayData{Summary: &DailySummary{
		ModerateIntensityMinutes: intp(20),
		VigorousIntensityMinutes: intp(15),
	}})
	require.NotNil(t, m.ExerciseMinutes)
	assert.Equal(t, 35, *m.ExerciseMinutes)

	// Zero on both sides means no exercise data, not zero minutes.
	m = mapDay(uuid.New(), testDay(), &DayData{Summary: &DailySummary{
		ModerateIntensityMinutes: intp(0),
		VigorousIntensityMinutes: intp(0),
	}})
	assert.Nil(t, m.ExerciseMinutes)
}

func TestMapDayStepsCaloriesAndDistance(t *testing.T) {
	m := mapDay(uuid.New(), testDay(), &DayData{Summary: &DailySummary{
		TotalSteps:          intp(12000),
		Steps:               intp(1),
		TotalKilocalories:   floatp(2100.7),
		Kilocalories:        floatp(1.0),
		TotalDistanceMeters: floatp(8500),
	}})
	require.NotNil(t, m.Steps)
	assert.Equal(t, 12000, *m.Steps)
	require.NotNil(t, m.Calories)
	assert.Equal(t, 2100, *m.Calories)
	require.NotNil(t, m.DistanceKm)
	assert.InDelta(t, 8.5, *m.DistanceKm, 0.001)
}

func TestMapDayBodyBatteryPrecedence(t *testing.T) {
	m := mapDay(uuid.New(), testDay(), &DayData{Summary: &DailySummary{
		BodyBatteryMostRecent: intp(55),
		BodyBatteryHighest:    intp(90),
	}})
	require.NotNil(t, m.BodyBattery)
	assert.Equal(t, 55, *m.BodyBattery)
}

func TestMapDaySleepScore(t *testing.T) {
	dto := &SleepDTO{}
	data := []byte(`{"sleepTimeSeconds":25200,"sleepScores":{"overall":{"value":82}}}`)
	require.NoError(t, json.Unmarshal(data, dto))

	m := mapDay(uuid.New(), testDay(), &DayData{Sleep: &SleepData{DailySleepDTO: dto}})
	require.NotNil(t, m.SleepScore)
	assert.Equal(t, 82, *m.SleepScore)
}
