// Package garmin links user accounts to Garmin Connect and pulls daily
// health data. Authentication is credential based: Garmin exposes no public
// OAuth app registration, so users hand over their username and password and
// the service keeps a serialized session to avoid repeated MFA prompts.
package garmin

import (
	"context"
	"time"
)

// Credentials is one login attempt. MFACode is empty on the first step of the
// two-step flow; IsCN selects the garmin.cn domains, which are a separate
// deployment with separate accounts.
type Credentials struct {
	Username string
	Password string
	MFACode  string
	IsCN     bool
}

// Session is an authenticated Garmin session. Blob is the serialized OAuth
// token state, opaque to callers; it is what gets encrypted and persisted so
// later syncs skip the password login entirely.
type Session struct {
	Blob string
	IsCN bool
}

// Profile is the subset of the Garmin social profile the dashboard shows.
type Profile struct {
	UserID      string
	DisplayName string
	ProfileURL  string
}

// DailySummary mirrors the usersummary-service payload. Garmin's
// international and China deployments disagree on several field names, so
// variants are kept side by side and the mapper applies a precedence order.
type DailySummary struct {
	TotalSteps               *int     `json:"totalSteps"`
	Steps                    *int     `json:"steps"`
	TotalKilocalories        *float64 `json:"totalKilocalories"`
	Kilocalories             *float64 `json:"kilocalories"`
	TotalDistanceMeters      *float64 `json:"totalDistanceMeters"`
	RestingHeartRate         *int     `json:"restingHeartRate"`
	AverageStressLevel       *int     `json:"averageStressLevel"`
	MaxStressLevel           *int     `json:"maxStressLevel"`
	ModerateIntensityMinutes *int     `json:"moderateIntensityMinutes"`
	VigorousIntensityMinutes *int     `json:"vigorousIntensityMinutes"`
	SleepSeconds             *int     `json:"sleepSeconds"`
	SleepingSeconds          *int     `json:"sleepingSeconds"` // garmin.cn variant
	BodyBatteryMostRecent    *int     `json:"bodyBatteryMostRecentValue"`
	BodyBatteryHighest       *int     `json:"bodyBatteryHighestValue"`
	AverageSpO2              *float64 `json:"averageSpo2"`
	AvgWakingRespiration     *float64 `json:"avgWakingRespirationValue"`
}

// SleepData mirrors the wellness-service sleep payload. Stage durations live
// under dailySleepDTO; the overall score under sleepScores.overall.value.
type SleepData struct {
	DailySleepDTO *SleepDTO `json:"dailySleepDTO"`
}

type SleepDTO struct {
	SleepTimeSeconds  *int `json:"sleepTimeSeconds"`
	DeepSleepSeconds  *int `json:"deepSleepSeconds"`
	LightSleepSeconds *int `json:"lightSleepSeconds"`
	RemSleepSeconds   *int `json:"remSleepSeconds"`
	SleepScores       *struct {
		Overall *struct {
			Value *int `json:"value"`
		} `json:"overall"`
	} `json:"sleepScores"`
}

// DayData bundles everything fetched for one calendar day.
type DayData struct {
	Summary *DailySummary
	Sleep   *SleepData
}

// Client is the provider boundary. The HTTP implementation talks to the real
// Garmin endpoints; tests substitute a fake.
//
// Login returns errs.ErrMFARequired when the account wants a code and
// creds.MFACode is empty, errs.ErrInvalidMFACode when the supplied code is
// rejected, and errs.ErrInvalidCredentials when the username or password is
// wrong.
type Client interface {
	Login(ctx context.Context, creds Credentials) (*Session, *Profile, error)
	Resume(ctx context.Context, blob string, isCN bool) (*Session, error)
	FetchDay(ctx context.Context, sess *Session, day time.Time) (*DayData, error)
}
