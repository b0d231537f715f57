// Package config loads runtime configuration for the carelog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path to the local cache database file
//	-r string   postgres DSN of the remote store
//	-q int      local cache quota in bytes
//
// # JSON schema
//
// The JSON loader uses timex.Duration for windows, so values can be either
// strings like "60s" or integer nanoseconds:
//
//	{
//	  "local_db_path": "carelog.db",
//	  "remote_dsn": "postgres://carelog:secret@db:5432/carelog",
//	  "cache_quota_bytes": 5242880,
//	  "tombstone_recency": "60s",
//	  "tombstone_retention": "300s",
//	  "event_delete_window": "2m",
//	  "online_check_interval": "15s",
//	  "photos": {
//	    "enabled": true,
//	    "endpoint": "http://minio:9000",
//	    "region": "us-east-1",
//	    "bucket": "profile-photos",
//	    "access_key": "...",
//	    "secret_key": "..."
//	  }
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
