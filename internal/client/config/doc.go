// Package config loads runtime configuration for the credkeeper CLI.
//
// Sources, later ones win:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by CREDKEEPER_CONFIG.
//  3. Environment variables CREDKEEPER_SERVER_ADDRESS and
//     CREDKEEPER_REQUEST_TIMEOUT.
//
// Command-line flags belong to the subcommands, so the client has none of
// its own.
//
// JSON schema:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s"
//	}
package config
