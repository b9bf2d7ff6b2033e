// Package cli contains the command line interface for tally.
//
// # Usage
//
// The CLI normalizes deferred summary-call specifications and evaluates
// them against CSV columns:
//
//	tally eval 'mean(_)' 'stat.sd(_)' --input data.csv --column price
//
// # Commands
//
//   - eval (default): normalize the given specs, load the CSV input, and
//     summarize the selected columns
//   - fmt: normalize specs and print the diagnostic rendering without
//     evaluating (native, json, yaml, ast subcommands)
//   - init: write a default configuration file from current flag values
//   - repl: interactive prompt with fuzzy completion over registry and
//     column names
//
// # Configuration
//
// Flags resolve from the command line, then from config files in the user
// config directory (config.yaml, config.json), then from defaults. The
// spec-file search path for eval --file is composed from the TALLY_PATH
// environment variable with the config directory appended.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// (go build -tags pprof).
//
//   - --pprof-mode: Enable profiling (block, clock, cpu, goroutine, heap,
//     mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/tally/pprof)
//
// # Examples
//
//	# Summarize one column with three calls
//	tally eval min max 'mean(_, {trim: 0.1})' -i data.csv -c price
//
//	# Print the normalized specs as YAML
//	tally fmt yaml 'stat.sd(_)'
//
//	# Debug logging with CPU profiling
//	tally --log-level=debug --pprof-mode=cpu eval min -i data.csv
package cli
