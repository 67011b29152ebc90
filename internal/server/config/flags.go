package config

import (
	"flag"
	"fmt"
	"io"
	"math"

	"github.com/dmitrijs2005/credkeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-m uint     argon2 memory, KiB
//	-i uint     argon2 iterations
//	-p uint     argon2 parallelism
//	-o string   OTLP/HTTP traces endpoint
//	-l string   log level
//
// The args are first filtered with flagx.FilterArgs so flags meant for other
// layers (-c) do not break parsing.
func parseFlags(config *Config, args []string) error {
	// Filter args to include only the flags handled here.
	args = flagx.FilterArgs(args, []string{"-a", "-w", "-d", "-s", "-m", "-i", "-p", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	memory := fs.Uint("m", uint(config.Argon2Memory), "argon2 memory (KiB)")
	iterations := fs.Uint("i", uint(config.Argon2Iterations), "argon2 iterations")
	parallelism := fs.Uint("p", uint(config.Argon2Parallelism), "argon2 parallelism")

	fs.StringVar(&config.OtelEndpoint, "o", config.OtelEndpoint, "OTLP traces endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *parallelism > math.MaxUint8 {
		return fmt.Errorf("argon2 parallelism must be <= %d", math.MaxUint8)
	}

	config.Argon2Memory = uint32(*memory)
	config.Argon2Iterations = uint32(*iterations)
	config.Argon2Parallelism = uint8(*parallelism)
	return nil
}
