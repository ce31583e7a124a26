package config

import "time"

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	HttpServer HttpServerConfig `yaml:"httpServer" env-required:"true"`
	Store      StoreConfig      `yaml:"store" env-required:"true"`
	Scraper    ScraperConfig    `yaml:"scraper" env-required:"true"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Notify     NotifyConfig     `yaml:"notify"`
}

type HttpServerConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost"`
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:"3001"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

// StoreConfig selects and configures the content store backend.
type StoreConfig struct {
	Driver     string        `yaml:"driver" env:"STORE_DRIVER" env-default:"sanity"` // sanity | postgres
	Sanity     SanityConfig  `yaml:"sanity"`
	DB         DBConfig      `yaml:"db"`
	WriteDelay time.Duration `yaml:"writeDelay" env-default:"200ms"` // pause after each created gig
}

type SanityConfig struct {
	ProjectID  string        `yaml:"projectId" env:"SANITY_PROJECT_ID"`
	Dataset    string        `yaml:"dataset" env:"SANITY_DATASET" env-default:"production"`
	APIVersion string        `yaml:"apiVersion" env-default:"2022-06-01"`
	Token      string        `yaml:"token" env:"SANITY_API_TOKEN"`
	Timeout    time.Duration `yaml:"timeout" env-default:"30s"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
}

// ProviderConfig describes one external event source.
type ProviderConfig struct {
	Name         string        `yaml:"name"`                          // bandsintown | songkick | eventbrite
	Enabled      bool          `yaml:"enabled" env-default:"true"`    //
	BaseURL      string        `yaml:"baseUrl"`                       // provider host, adapter appends paths
	RequestDelay time.Duration `yaml:"requestDelay" env-default:"2s"` // pause between per-location fetches
	Timeout      time.Duration `yaml:"timeout" env-default:"15s"`     // per-fetch HTTP timeout
}

type ScraperConfig struct {
	Locations    []string         `yaml:"locations"`                    // cities to scrape, in priority order
	MaxLocations int              `yaml:"maxLocations" env-default:"3"` // only the first N are fetched per run
	UserAgent    string           `yaml:"userAgent" env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
	Providers    []ProviderConfig `yaml:"providers"`
}

type SchedulerConfig struct {
	Timezone      string `yaml:"timezone" env-default:"Europe/Dublin"`
	FullSpec      string `yaml:"fullSpec" env-default:"0 2 * * *"`
	QuickSpec     string `yaml:"quickSpec" env-default:"0 9-23 * * *"`
	CleanupSpec   string `yaml:"cleanupSpec" env-default:"0 3 * * 0"`
	QuickProvider string `yaml:"quickProvider" env-default:"bandsintown"` // most reliable single source
}

// NotifyConfig configures the optional Telegram run-summary notifier.
// Disabled when the token is empty.
type NotifyConfig struct {
	TgbotApiToken string  `yaml:"tgbot_apitoken" env:"TGBOT_APITOKEN"`
	ChatIDs       []int64 `yaml:"chatIds"`
}
