package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sittersafe/carelog/internal/flagx"
	"github.com/sittersafe/carelog/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify windows either as strings like "60s" or
// as integer nanoseconds. After parsing, values are copied into the runtime
// Config (which uses time.Duration).
type JsonConfig struct {
	LocalDBPath         string         `json:"local_db_path"`
	RemoteDSN           string         `json:"remote_dsn"`
	CacheQuotaBytes     *int64         `json:"cache_quota_bytes"`
	TombstoneRecency    timex.Duration `json:"tombstone_recency"`
	TombstoneRetention  timex.Duration `json:"tombstone_retention"`
	EventDeleteWindow   timex.Duration `json:"event_delete_window"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	Photos              *JsonPhotos    `json:"photos"`
}

type JsonPhotos struct {
	Enabled   bool   `json:"enabled"`
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Absent fields keep their current (default) values; read or unmarshal
// errors panic, a broken config file should stop startup loudly.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
	if jc.RemoteDSN != "" {
		cfg.RemoteDSN = jc.RemoteDSN
	}
	if jc.CacheQuotaBytes != nil {
		cfg.CacheQuotaBytes = *jc.CacheQuotaBytes
	}
	if d := time.Duration(jc.TombstoneRecency.Duration); d > 0 {
		cfg.TombstoneRecency = d
	}
	if d := time.Duration(jc.TombstoneRetention.Duration); d > 0 {
		cfg.TombstoneRetention = d
	}
	if d := time.Duration(jc.EventDeleteWindow.Duration); d > 0 {
		cfg.EventDeleteWindow = d
	}
	if d := time.Duration(jc.OnlineCheckInterval.Duration); d > 0 {
		cfg.OnlineCheckInterval = d
	}
	if jc.Photos != nil {
		cfg.Photos.Enabled = jc.Photos.Enabled
		if jc.Photos.Endpoint != "" {
			cfg.Photos.Endpoint = jc.Photos.Endpoint
		}
		if jc.Photos.Region != "" {
			cfg.Photos.Region = jc.Photos.Region
		}
		if jc.Photos.Bucket != "" {
			cfg.Photos.Bucket = jc.Photos.Bucket
		}
		cfg.Photos.AccessKey = jc.Photos.AccessKey
		cfg.Photos.SecretKey = jc.Photos.SecretKey
	}
}
