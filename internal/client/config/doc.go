// Package config loads runtime configuration for the Elrond CLI.
//
// Sources, lowest precedence first: defaults, a JSON file named by -c or
// -config, ELROND_* environment variables, then the -a and -t flags.
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "15s"
//	}
package config
