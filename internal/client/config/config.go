package config

import "time"

// PhotosConfig holds the optional object storage connection for the photo
// archive. With Enabled false the client never touches object storage.
type PhotosConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings for the carelog CLI.
//
// An empty LocalDBPath switches the client to a throwaway in-memory cache;
// an empty RemoteDSN keeps it fully offline.
type Config struct {
	LocalDBPath         string
	RemoteDSN           string
	CacheQuotaBytes     int64
	TombstoneRecency    time.Duration
	TombstoneRetention  time.Duration
	EventDeleteWindow   time.Duration
	OnlineCheckInterval time.Duration
	Photos              PhotosConfig
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LocalDBPath = "carelog.db"
	c.RemoteDSN = ""
	c.CacheQuotaBytes = 5 << 20
	c.TombstoneRecency = 60 * time.Second
	c.TombstoneRetention = 300 * time.Second
	c.EventDeleteWindow = 2 * time.Minute
	c.OnlineCheckInterval = 15 * time.Second
	c.Photos = PhotosConfig{Region: "us-east-1", Bucket: "profile-photos"}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
