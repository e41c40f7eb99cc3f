package config

import (
	"encoding/json"
	"os"

	"github.com/cuadratic/tasklist/internal/flagx"
	"github.com/cuadratic/tasklist/internal/timex"
)

// JsonConfig is the intermediate DTO for JSON configuration files. Interval
// fields use timex.Duration, so values can be strings like "3s" or integer
// nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "online_check_interval": "3s",
//	  "request_delay": "250ms"
//	}
type JsonConfig struct {
	ServerURL           string          `json:"server_url"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	RequestDelay        *timex.Duration `json:"request_delay"`
}

// parseJson overlays values from the JSON file named by -c/-config, if any.
// Fields absent from the file keep their current values. Panics on an
// unreadable file or invalid JSON.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.OnlineCheckInterval != nil {
		config.OnlineCheckInterval = c.OnlineCheckInterval.Duration
	}
	if c.RequestDelay != nil {
		config.RequestDelay = c.RequestDelay.Duration
	}
}
