package schemas

// Preferences controls which dashboard cards a user sees and which tab the
// dashboard opens on. HiddenCards is stored server-side as a JSON string but
// exposed here as a list.
type Preferences struct {
	ShowSleep       bool     `json:"show_sleep"`
	ShowExercise    bool     `json:"show_exercise"`
	ShowWorkTime    bool     `json:"show_work_time"`
	ShowFocus       bool     `json:"show_focus"`
	ShowStress      bool     `json:"show_stress"`
	ShowSleepStages bool     `json:"show_sleep_stages"`
	HiddenCards     []string `json:"hidden_cards"`
	DefaultViewTab  string   `json:"default_view_tab" enum:"activity,health" default:"activity"`
}

type PreferencesResponse struct {
	Body Preferences
}

type PreferencesUpdateRequest struct {
	Body Preferences
}

// HiddenCardsRequest updates only the hidden-card list, leaving the toggles
// untouched.
type HiddenCardsRequest struct {
	Body struct {
		HiddenCards []string `json:"hidden_cards"`
	}
}

type HiddenCardsResponse struct {
	Body struct {
		Message     string   `json:"message"`
		HiddenCards []string `json:"hidden_cards"`
	}
}
