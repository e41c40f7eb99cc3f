package config

import (
	"flag"
	"os"
	"time"

	"github.com/cuadratic/tasklist/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend HTTP endpoint
//	-i int      online status check interval (seconds)
//	-w int      artificial request delay (milliseconds)
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "a", config.ServerURL, "server base URL")

	checkInterval := fs.Int("i", int(config.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestDelay := fs.Int("w", int(config.RequestDelay.Milliseconds()), "artificial request delay (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.OnlineCheckInterval = time.Duration(*checkInterval) * time.Second
	config.RequestDelay = time.Duration(*requestDelay) * time.Millisecond
}
