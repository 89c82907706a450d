package schemas

// LinkState is the explicit state of the two-step Garmin link flow, passed
// between client and server rather than kept as implicit UI state.
type LinkState string

const (
	LinkStateLinked      LinkState = "linked"
	LinkStateAwaitingMFA LinkState = "awaiting_mfa"
)

// GarminConnectRequest starts or completes the two-step Garmin link flow.
// The first call omits MFAToken; if the provider demands a code the client
// resubmits the same credentials together with it. Credentials are held only
// in the request, never persisted before the final success.
type GarminConnectRequest struct {
	Body struct {
		Username string `json:"username" minLength:"1" doc:"Garmin Connect username (email)"`
		Password string `json:"password" minLength:"1"`
		MFAToken string `json:"mfa_token,omitempty" doc:"One-time code, when the account requires MFA"`
		IsCN     bool   `json:"is_cn,omitempty" doc:"True for Garmin China (garmin.cn)"`
	}
}

// GarminConnectResponse reports the resulting link state. Connection is set
// only when State is linked; when State is awaiting_mfa nothing has been
// persisted and the client must resubmit with a code.
type GarminConnectResponse struct {
	Body struct {
		State      LinkState           `json:"state" enum:"linked,awaiting_mfa"`
		Message    string              `json:"message,omitempty"`
		Connection *ConnectionSnapshot `json:"connection,omitempty"`
		Sync       *SyncResult         `json:"sync,omitempty" doc:"Result of the initial sync pass"`
	}
}

// GarminTestRequest validates credentials without storing anything.
type GarminTestRequest struct {
	Body struct {
		Username string `json:"username" minLength:"1"`
		Password string `json:"password" minLength:"1"`
		MFAToken string `json:"mfa_token,omitempty"`
		IsCN     bool   `json:"is_cn,omitempty"`
	}
}

type GarminTestResponse struct {
	Body struct {
		Valid  bool   `json:"valid"`
		Error  string `json:"error,omitempty"`
		Region string `json:"region"`
	}
}
