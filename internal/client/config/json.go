package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/shelfie-app/shelfie/internal/flagx"
	"github.com/shelfie-app/shelfie/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify timeouts either as strings like "10s"
// or as integer nanoseconds.
type JsonConfig struct {
	AuthServerAddr string         `json:"auth_server_addr"`
	AuthTimeout    timex.Duration `json:"auth_timeout"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DatabasePath   string         `json:"database_path"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// Absent file path means no overlay. Only fields present in the file
// override the existing values.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.AuthServerAddr != "" {
		cfg.AuthServerAddr = jc.AuthServerAddr
	}
	if jc.AuthTimeout.Duration != 0 {
		cfg.AuthTimeout = time.Duration(jc.AuthTimeout.Duration)
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
}
