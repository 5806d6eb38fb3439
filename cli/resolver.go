package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from the
// mapping stored under key name of a YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config.yaml")
//
// The YAML structure is converted as follows:
//   - Keys of the named mapping are flag names; hyphens and underscores are
//     interchangeable (e.g., "log-level" or "log_level")
//   - Scalars are passed to kong as strings so its mappers parse them
//   - Sequences become comma-separated values for slice flags
//   - Mappings become NAME=VALUE pairs for map flags such as --var
//
// Example config file:
//
//	config:
//	  log-level: debug
//	  log-format: text
//	  log-pretty: true
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug
//	--log-format=text
//	--log-pretty=true
//
// Command-line flags override config file values. An empty file, or one
// without the named mapping, resolves nothing.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return config{}, nil
			}

			return nil, fmt.Errorf("decode configuration: %w", err)
		}

		section, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		result := make(config, len(section))
		for key, value := range section {
			result[key] = flagText(value)
		}

		return result, nil
	}
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagText converts a decoded YAML value to the form kong's mappers accept.
func flagText(value any) any {
	switch v := value.(type) {
	case nil:
		return nil

	case string:
		return v

	case bool:
		return strconv.FormatBool(v)

	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		elems := make([]string, len(v))
		for i, e := range v {
			elems[i] = fmt.Sprint(flagText(e))
		}

		return strings.Join(elems, ",")

	case map[string]any:
		pairs := make([]string, 0, len(v))
		for key, e := range v {
			pairs = append(pairs, key+"="+fmt.Sprint(flagText(e)))
		}

		return strings.Join(pairs, ";")

	default:
		return fmt.Sprint(v)
	}
}
