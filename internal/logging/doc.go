// Package logging builds the zerolog loggers used by lapdread.
package logging
