package config

type API struct {
	BaseURL        string `mapstructure:"PUG_BASE_URL" default:"https://pubchem.ncbi.nlm.nih.gov/rest/pug"`
	TimeoutSec     int    `mapstructure:"PUG_TIMEOUT_SEC" default:"30"`
	PollIntervalMS int    `mapstructure:"PUG_POLL_INTERVAL_MS" default:"2000"`
	UserAgent      string `mapstructure:"PUG_USER_AGENT" default:"pugrest-go"`
}

type Batch struct {
	Workers   int `mapstructure:"BATCH_WORKERS" default:"8"`
	CacheSize int `mapstructure:"BATCH_CACHE_SIZE" default:"1024"`
}

type Server struct {
	Platform string `mapstructure:"PLATFORM" default:"chemstack"`
	Service  string `mapstructure:"SERVICE" default:"pugrest"`
	Env      string `mapstructure:"ENV" default:"dev"`
}

type Log struct {
	LogPath  string `mapstructure:"LOG_PATH" default:"./info.log"`
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
}
