// Package cli contains the command line interface for exparse.
//
// # Usage
//
// The default command evaluates its arguments as one expression:
//
//	exparse '2 + 3 * x' --var x=4
//	exparse --engine vm 'let r = 2; 3 * r ^ 2'
//	echo '(1 + 2) * 3' | exparse
//	exparse --source expr.txt --sequential
//
// Other commands:
//
//	exparse fmt [native|json|yaml|ast] EXPR
//	exparse repl --var rate=0.07
//	exparse init [--force]
//	exparse version
//
// # Configuration
//
// Flag defaults are read from $XDG_CONFIG_HOME/exparse/config.yaml, then
// config.json in the same directory. The YAML file holds a single "config"
// mapping keyed by flag name:
//
//	config:
//	  log-level: debug
//	  log-format: text
//	  var:
//	    rate: 0.07
//
// Command-line flags override config file values. The init command writes
// the current flag values to the YAML file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Trace level reports parse and evaluation internals such as token counts,
// fork decisions and parse cache hits.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o exparse .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     $XDG_CACHE_HOME/exparse/pprof)
//
// REPL history is kept in the same cache directory.
package cli
