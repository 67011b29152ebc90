package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/credkeeper/internal/flagx"
	"github.com/dmitrijs2005/credkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds. Absent keys leave the
// current value alone.
type JsonConfig struct {
	EndpointAddrGRPC  *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP  *string         `json:"endpoint_addr_http"`
	DatabaseDSN       *string         `json:"database_dsn"`
	SecretKey         *string         `json:"secret_key"`
	Argon2Memory      *uint32         `json:"argon2_memory"`
	Argon2Iterations  *uint32         `json:"argon2_iterations"`
	Argon2Parallelism *uint8          `json:"argon2_parallelism"`
	ShutdownTimeout   *timex.Duration `json:"shutdown_timeout"`
	OtelEndpoint      *string         `json:"otel_endpoint"`
	LogLevel          *string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. Without the flag nothing is loaded.
func parseJson(config *Config, args []string) error {

	jsonConfigFile := flagx.ConfigFilePath(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", jsonConfigFile, err)
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.Argon2Memory, c.Argon2Memory)
	set(&config.Argon2Iterations, c.Argon2Iterations)
	set(&config.Argon2Parallelism, c.Argon2Parallelism)
	set(&config.OtelEndpoint, c.OtelEndpoint)
	set(&config.LogLevel, c.LogLevel)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}

	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
