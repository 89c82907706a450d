package schemas

import "time"

// HealthMetricView is one day of health data for one user.
type HealthMetricView struct {
	Date             time.Time `json:"date"`
	SleepHours       *float64  `json:"sleep_hours,omitempty"`
	LightSleepHours  *float64  `json:"light_sleep_hours,omitempty"`
	DeepSleepHours   *float64  `json:"deep_sleep_hours,omitempty"`
	RemSleepHours    *float64  `json:"rem_sleep_hours,omitempty"`
	RestingHeartRate *int      `json:"resting_heart_rate,omitempty"`
	StressLevel      *int      `json:"stress_level,omitempty"`
	ExerciseMinutes  *int      `json:"exercise_minutes,omitempty"`
	Steps            *int      `json:"steps,omitempty"`
	Calories         *int      `json:"calories,omitempty"`
	DistanceKm       *float64  `json:"distance_km,omitempty"`
	BodyBattery      *int      `json:"body_battery,omitempty"`
	SpO2             *float64  `json:"spo2,omitempty"`
	RespirationRate  *float64  `json:"respiration_rate,omitempty"`
	SleepScore       *int      `json:"sleep_score,omitempty"`
}

// HealthMetricUpsertRequest records a manual entry. Only non-null fields are
// written; existing values for omitted fields are preserved.
type HealthMetricUpsertRequest struct {
	Body HealthMetricView
}

type HealthMetricResponse struct {
	Body HealthMetricView
}

type HealthMetricsListResponse struct {
	Body struct {
		Metrics []HealthMetricView `json:"metrics"`
		Count   int                `json:"count"`
	}
}

type HealthMetricsListRequest struct {
	StartDate time.Time `query:"start_date" doc:"Window start (inclusive)"`
	EndDate   time.Time `query:"end_date" doc:"Window end (inclusive)"`
}

type HealthMetricDeleteRequest struct {
	Date string `path:"date" doc:"Day to delete (YYYY-MM-DD)"`
}

type HealthMetricDeleteResponse struct {
	Body struct {
		Message string `json:"message" example:"health metric deleted"`
	}
}

// HealthIngestRequest upserts one day of health data on behalf of a device,
// authenticated by API key like the work-metric endpoint.
type HealthIngestRequest struct {
	APIKey string `header:"X-API-Key" doc:"Ingest API key"`
	Body   struct {
		UserID string `json:"user_id" format:"uuid"`
		HealthMetricView
	}
}

// WorkIngestRequest is a heartbeat packet from a desktop client, authenticated
// by API key rather than a user token.
type WorkIngestRequest struct {
	APIKey string `header:"X-API-Key" doc:"Ingest API key"`
	Body   struct {
		UserID               string    `json:"user_id" format:"uuid"`
		Timestamp            time.Time `json:"timestamp"`
		ScreenTimeMinutes    *int      `json:"screen_time_minutes,omitempty"`
		FocusScore           *int      `json:"focus_score,omitempty" minimum:"0" maximum:"100"`
		ActiveWindowCategory string    `json:"active_window_category,omitempty"`
	}
}

type WorkIngestResponse struct {
	Body struct {
		Message string `json:"message" example:"work metric recorded"`
	}
}
