package tourapi

// Config holds the TourAPI endpoint configuration.
type Config struct {
	// ServiceKey is the data.go.kr decoding key. It is URL-encoded on the wire.
	ServiceKey string `mapstructure:"service_key" default:""`
	// BaseURL is the root of KorService1 and EngService1.
	BaseURL string `mapstructure:"base_url" default:"https://apis.data.go.kr/B551011"`
	// MobileOS and MobileApp are mandatory on every request.
	MobileOS  string `mapstructure:"mobile_os" default:"ETC"`
	MobileApp string `mapstructure:"mobile_app" default:"tour-admin"`
	// RequestsPerSecond paces upstream calls. Zero disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// TimeoutSeconds bounds a single HTTP request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RetryCount is the number of retries on transport or 5xx errors.
	RetryCount int `mapstructure:"retry_count" default:"2"`
	// AreaCode and SigunguCode restrict listings to the portal's region.
	// Empty lists the whole country. SigunguCode needs AreaCode.
	AreaCode    string `mapstructure:"area_code" default:""`
	SigunguCode string `mapstructure:"sigungu_code" default:""`
	// EventStartDate (YYYYMMDD) is the lower bound for searchFestival1.
	EventStartDate string `mapstructure:"event_start_date" default:"20200101"`
}
