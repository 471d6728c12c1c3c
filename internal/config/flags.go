package config

import (
	"flag"
	"os"

	"github.com/wayfarer-app/wayfarer/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   token exchange endpoint URL
//	-r string   traveller records endpoint URL
//	-d string   path to the local session database
//	-k int      upload concurrency
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-r", "-d", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ExchangeEndpointURL, "a", cfg.ExchangeEndpointURL, "token exchange endpoint URL")
	fs.StringVar(&cfg.RecordsEndpointURL, "r", cfg.RecordsEndpointURL, "traveller records endpoint URL")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "path to the local session database")
	fs.IntVar(&cfg.UploadConcurrency, "k", cfg.UploadConcurrency, "upload concurrency")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
