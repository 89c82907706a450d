package schemas

import "time"

// DailyTrendPoint is one day of one user's combined health and work data.
// Health fields come straight from the day's row; work fields are aggregated
// over that day's heartbeat packets. Nil means no data, so charts can render
// gaps instead of zeros.
type DailyTrendPoint struct {
	Date             time.Time `json:"date"`
	UserID           string    `json:"user_id"`
	UserName         string    `json:"user_name"`
	SleepHours       *float64  `json:"sleep_hours,omitempty"`
	LightSleepHours  *float64  `json:"light_sleep_hours,omitempty"`
	DeepSleepHours   *float64  `json:"deep_sleep_hours,omitempty"`
	RemSleepHours    *float64  `json:"rem_sleep_hours,omitempty"`
	ExerciseMinutes  *int      `json:"exercise_minutes,omitempty"`
	StressLevel      *int      `json:"stress_level,omitempty"`
	TotalWorkMinutes *int      `json:"total_work_minutes,omitempty"`
	AvgFocusScore    *float64  `json:"avg_focus_score,omitempty"`
	Steps            *int      `json:"steps,omitempty"`
	Calories         *int      `json:"calories,omitempty"`
	DistanceKm       *float64  `json:"distance_km,omitempty"`
	BodyBattery      *int      `json:"body_battery,omitempty"`
	SpO2             *float64  `json:"spo2,omitempty"`
	RespirationRate  *float64  `json:"respiration_rate,omitempty"`
	RestingHeartRate *int      `json:"resting_heart_rate,omitempty"`
	SleepScore       *int      `json:"sleep_score,omitempty"`
}

type TrendsRequest struct {
	Days    int        `query:"days" minimum:"1" maximum:"365" default:"30" doc:"Number of days to retrieve"`
	EndDate *time.Time `query:"end_date" doc:"End date (defaults to today)"`
}

type TrendsResponse struct {
	Body struct {
		StartDate time.Time         `json:"start_date"`
		EndDate   time.Time         `json:"end_date"`
		Data      []DailyTrendPoint `json:"data"`
	}
}

// OverviewMetric is one user's current-day snapshot on the family dashboard.
type OverviewMetric struct {
	UserID           string   `json:"user_id"`
	UserName         string   `json:"user_name"`
	SleepHours       *float64 `json:"sleep_hours,omitempty"`
	LightSleepHours  *float64 `json:"light_sleep_hours,omitempty"`
	DeepSleepHours   *float64 `json:"deep_sleep_hours,omitempty"`
	RemSleepHours    *float64 `json:"rem_sleep_hours,omitempty"`
	ExerciseMinutes  *int     `json:"exercise_minutes,omitempty"`
	StressLevel      *int     `json:"stress_level,omitempty"`
	TotalWorkMinutes *int     `json:"total_work_minutes,omitempty"`
	AvgFocusScore    *float64 `json:"avg_focus_score,omitempty"`
	Steps            *int     `json:"steps,omitempty"`
	Calories         *int     `json:"calories,omitempty"`
	DistanceKm       *float64 `json:"distance_km,omitempty"`
	BodyBattery      *int     `json:"body_battery,omitempty"`
	SpO2             *float64 `json:"spo2,omitempty"`
	RespirationRate  *float64 `json:"respiration_rate,omitempty"`
	RestingHeartRate *int     `json:"resting_heart_rate,omitempty"`
	SleepScore       *int     `json:"sleep_score,omitempty"`
}

type OverviewRequest struct {
	TargetDate *time.Time `query:"target_date" doc:"Target date (defaults to today)"`
}

type OverviewResponse struct {
	Body struct {
		Date    time.Time        `json:"date"`
		Metrics []OverviewMetric `json:"metrics"`
	}
}

// SummaryResponse is the compact header block: the caller's own core numbers
// for one day.
type SummaryResponse struct {
	Body struct {
		Date     time.Time      `json:"date"`
		UserID   string         `json:"user_id"`
		UserName string         `json:"user_name"`
		Avatar   string         `json:"avatar,omitempty"`
		Metrics  SummaryMetrics `json:"metrics"`
	}
}

type SummaryMetrics struct {
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	Steps       *int     `json:"steps,omitempty"`
	Calories    *int     `json:"calories,omitempty"`
	WorkHours   *float64 `json:"work_hours,omitempty"`
	StressLevel *int     `json:"stress_level,omitempty"`
}
