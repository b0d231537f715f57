package config

import (
	"flag"
	"os"

	"github.com/sittersafe/carelog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the local cache database file (default from Config)
//	-r string   postgres DSN of the remote store (default from Config)
//	-q int      local cache quota in bytes (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "path to the local cache database file")
	fs.StringVar(&cfg.RemoteDSN, "r", cfg.RemoteDSN, "postgres DSN of the remote store")
	fs.Int64Var(&cfg.CacheQuotaBytes, "q", cfg.CacheQuotaBytes, "local cache quota in bytes")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
