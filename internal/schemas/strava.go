package schemas

import "time"

// StravaAppConfigRequest stores the caller's own Strava application
// credentials. Each family member may register their own app, so the OAuth
// flow is keyed per user rather than by a process-wide client id.
type StravaAppConfigRequest struct {
	Body struct {
		ClientID     string `json:"client_id" minLength:"1"`
		ClientSecret string `json:"client_secret" minLength:"1"`
	}
}

type StravaAppConfigResponse struct {
	Body struct {
		HasConfig bool `json:"has_config"`
	}
}

type StravaAuthorizeResponse struct {
	Body struct {
		AuthorizationURL string `json:"authorization_url"`
	}
}

// StravaCallbackRequest carries the single-use authorization code returned by
// Strava, plus the state echoed back for CSRF validation.
type StravaCallbackRequest struct {
	Body struct {
		Code  string `json:"code" minLength:"1"`
		State string `json:"state,omitempty" doc:"State value issued by the authorize endpoint"`
	}
}

type ActivityView struct {
	ID                 int64      `json:"id"`
	ProviderActivityID int64      `json:"provider_activity_id"`
	Date               time.Time  `json:"date"`
	ActivityType       string     `json:"activity_type,omitempty"`
	Name               string     `json:"name,omitempty"`
	DistanceMeters     *float64   `json:"distance_meters,omitempty"`
	MovingTimeSeconds  *int       `json:"moving_time_seconds,omitempty"`
	ElapsedTimeSeconds *int       `json:"elapsed_time_seconds,omitempty"`
	AverageSpeedMps    *float64   `json:"average_speed_mps,omitempty"`
	MaxSpeedMps        *float64   `json:"max_speed_mps,omitempty"`
	AverageHeartrate   *float64   `json:"average_heartrate,omitempty"`
	MaxHeartrate       *int       `json:"max_heartrate,omitempty"`
	ElevationGainM     *float64   `json:"elevation_gain_meters,omitempty"`
	Calories           *float64   `json:"calories,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	StartDateLocal     *time.Time `json:"start_date_local,omitempty"`
}

type ActivitiesResponse struct {
	Body struct {
		Activities []ActivityView `json:"activities"`
		Count      int            `json:"count"`
	}
}

type ActivityResponse struct {
	Body ActivityView
}
