// Package config loads lapdread settings from a YAML file and the
// environment.
//
// Keys use dotted names (log.level, read.workers). Every key can be
// overridden by an environment variable with the LAPD_ prefix and dots
// replaced by underscores, for example LAPD_READ_WORKERS=4.
package config
