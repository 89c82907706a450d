package schemas

import "time"

// SyncResult reports the outcome of one sync pass. Per-item failures land in
// Errors while processing continues; Success is false only when the provider
// call failed outright or nothing could be synced.
type SyncResult struct {
	Success      bool      `json:"success"`
	ItemsSynced  int       `json:"items_synced" doc:"Items reconciled in this pass"`
	ItemsCreated int       `json:"items_created"`
	ItemsUpdated int       `json:"items_updated"`
	Errors       []string  `json:"errors"`
	LastSyncAt   time.Time `json:"last_sync_at"`
}

// SyncRequest bounds the remote query. The engine never fetches unbounded
// history: Days is clamped and StartDate wins when both are set.
type SyncRequest struct {
	Body struct {
		Days      int        `json:"days,omitempty" minimum:"0" maximum:"365" doc:"Number of days back from today"`
		StartDate *time.Time `json:"start_date,omitempty" doc:"Explicit window start (overrides days)"`
	}
}

// SyncResponse wraps a SyncResult.
type SyncResponse struct {
	Body SyncResult
}
