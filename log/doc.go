// Package log provides a concurrency-safe structured logging interface
// based on [log/slog], extended with a Trace level below Debug.
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//
// A zero-valued Logger is valid and discards everything, so packages can
// accept a Logger without nil checks.
//
// The package also maintains a default logger used by the package-level
// functions ([Info], [Warn], [Error], ...). The CLI reconfigures it from
// command-line flags via [Config].
//
// Two output formats are supported, [FormatText] and [FormatJSON], each
// with an optional colorized pretty variant for terminals.
package log
