package routes

var (
	BearerAuth = []map[string][]string{
		{"bearer": {}},
	}
)

type Tag string

const (
	TagGeneral     Tag = "general"
	TagAuth        Tag = "auth"
	TagUsers       Tag = "users"
	TagGarmin      Tag = "garmin"
	TagStrava      Tag = "strava"
	TagDashboard   Tag = "dashboard"
	TagPreferences Tag = "preferences"
	TagIngest      Tag = "ingest"
)

func (t Tag) String() string { return string(t) }
