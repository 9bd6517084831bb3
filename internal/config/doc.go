// Package config loads and validates the dashboard configuration.
//
// Configuration comes from two layers: an optional config.yaml file and
// PLANT_-prefixed environment variables, with the environment taking
// precedence. All values carry defaults so the dashboard runs with no
// configuration at all when the data directory sits next to the binary.
package config
