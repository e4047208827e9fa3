// Package config holds the rankwatch configuration.
//
// Values are layered: NewConfig defaults, then the .rankwatch YAML file
// (shared defaults plus named projects), then the environment (a .env file
// is read first), then CLI flags.
package config
