// Package models defines the bun table models shared by the store layer and
// migrations.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Provider identifies an external data source linked to a user.
type Provider string

const (
	ProviderGarmin Provider = "garmin"
	ProviderStrava Provider = "strava"
)

// SyncStatus is the persisted state of an external connection.
//
// StatusConfigSet is a Strava-only intermediate: the user's app credentials
// are stored but no OAuth tokens exist yet. The status projection reports it
// as not_connected.
type SyncStatus string

const (
	StatusConnected SyncStatus = "connected"
	StatusError     SyncStatus = "error"
	StatusExpired   SyncStatus = "expired"
	StatusConfigSet SyncStatus = "config_set"
)

// User is a family member account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             uuid.UUID `bun:"type:uuid,default:gen_random_uuid(),pk"`
	Name           string    `bun:",notnull"`
	Email          string    `bun:",unique,notnull"`
	HashedPassword string    `bun:",notnull"`
	Avatar         string    `bun:",nullzero"`
	IsActive       bool      `bun:",notnull,default:true"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// ExternalConnection binds a user to one provider. At most one row exists per
// (user, provider). All credential columns hold secretbox-sealed values;
// plaintext never reaches this struct.
type ExternalConnection struct {
	bun.BaseModel `bun:"table:external_connections,alias:ec"`

	ID       uuid.UUID `bun:"type:uuid,default:gen_random_uuid(),pk"`
	UserID   uuid.UUID `bun:"type:uuid,notnull"`
	Provider Provider  `bun:",notnull"`

	// Garmin credential material (encrypted).
	Username     string `bun:",nullzero"`
	Password     string `bun:",nullzero"`
	SessionBlob  string `bun:"session_blob,nullzero"` // serialized provider session tokens
	IsCN         bool   `bun:"is_cn,notnull,default:false"`

	// Strava app credentials and OAuth tokens (encrypted). Each user may
	// register their own Strava application.
	ClientID       string `bun:"client_id,nullzero"`
	ClientSecret   string `bun:"client_secret,nullzero"`
	AccessToken    string `bun:",nullzero"`
	RefreshToken   string `bun:",nullzero"`
	TokenExpiresAt int64  `bun:",nullzero"` // unix seconds

	// Provider identity (not sensitive).
	ProviderUserID      string `bun:",nullzero"`
	ProviderDisplayName string `bun:",nullzero"`
	ProviderProfile     string `bun:",nullzero"`

	SyncStatus SyncStatus `bun:",notnull"`
	LastError  string     `bun:",nullzero"`
	LastSyncAt *time.Time `bun:",nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// HealthMetric holds one day of health data for one user. Fields are pointers
// so that "absent" is distinguishable from zero: Garmin reconciliation merges
// field-by-field and must never clobber a manually entered value with a null.
type HealthMetric struct {
	bun.BaseModel `bun:"table:health_metrics,alias:hm"`

	ID     int64     `bun:",pk,autoincrement"`
	UserID uuid.UUID `bun:"type:uuid,notnull"`
	Date   time.Time `bun:"type:date,notnull"`

	SleepHours       *float64 `bun:",nullzero"`
	LightSleepHours  *float64 `bun:",nullzero"`
	DeepSleepHours   *float64 `bun:",nullzero"`
	RemSleepHours    *float64 `bun:",nullzero"`
	RestingHeartRate *int     `bun:",nullzero"`
	StressLevel      *int     `bun:",nullzero"`
	ExerciseMinutes  *int     `bun:",nullzero"`
	Steps            *int     `bun:",nullzero"`
	Calories         *int     `bun:",nullzero"`
	DistanceKm       *float64 `bun:",nullzero"`
	BodyBattery      *int     `bun:",nullzero"`
	SpO2             *float64 `bun:"spo2,nullzero"`
	RespirationRate  *float64 `bun:",nullzero"`
	SleepScore       *int     `bun:",nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Activity is one synced Strava activity, keyed by (user, provider activity id).
type Activity struct {
	bun.BaseModel `bun:"table:activities,alias:a"`

	ID                 int64     `bun:",pk,autoincrement"`
	UserID             uuid.UUID `bun:"type:uuid,notnull"`
	ProviderActivityID int64     `bun:",notnull"`
	Date               time.Time `bun:"type:date,notnull"`

	ActivityType       string     `bun:",nullzero"`
	Name               string     `bun:",nullzero"`
	DistanceMeters     *float64   `bun:",nullzero"`
	MovingTimeSeconds  *int       `bun:",nullzero"`
	ElapsedTimeSeconds *int       `bun:",nullzero"`
	AverageSpeedMps    *float64   `bun:",nullzero"`
	MaxSpeedMps        *float64   `bun:",nullzero"`
	AverageHeartrate   *float64   `bun:",nullzero"`
	MaxHeartrate       *int       `bun:",nullzero"`
	ElevationGainM     *float64   `bun:",nullzero"`
	Calories           *float64   `bun:",nullzero"`
	StartDate          *time.Time `bun:",nullzero"`
	StartDateLocal     *time.Time `bun:",nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// WorkMetric is a heartbeat packet from a desktop client. Multiple rows per
// user per day.
type WorkMetric struct {
	bun.BaseModel `bun:"table:work_metrics,alias:wm"`

	ID        int64     `bun:",pk,autoincrement"`
	UserID    uuid.UUID `bun:"type:uuid,notnull"`
	Timestamp time.Time `bun:",notnull"`

	ScreenTimeMinutes    *int   `bun:",nullzero"`
	FocusScore           *int   `bun:",nullzero"`
	ActiveWindowCategory string `bun:",nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// UserPreference stores per-user dashboard UI state. One row per user.
type UserPreference struct {
	bun.BaseModel `bun:"table:user_preferences,alias:up"`

	ID     int64     `bun:",pk,autoincrement"`
	UserID uuid.UUID `bun:"type:uuid,unique,notnull"`

	ShowSleep       bool `bun:",notnull,default:true"`
	ShowExercise    bool `bun:",notnull,default:true"`
	ShowWorkTime    bool `bun:",notnull,default:true"`
	ShowFocus       bool `bun:",notnull,default:true"`
	ShowStress      bool `bun:",notnull,default:true"`
	ShowSleepStages bool `bun:",notnull,default:true"`

	HiddenCards    string `bun:",nullzero"` // JSON array of card IDs
	DefaultViewTab string `bun:",notnull,default:'activity'"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
