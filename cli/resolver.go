package cli

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ccnt/log"
)

// resolve is a [kong.ConfigurationLoader] that reads flag values from a YAML
// mapping.
//
// It is used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys are flag names. Either hyphens or underscores may separate words, so
// log-level and log_level both set --log-level. Numbers are passed to kong as
// strings and sequences are joined with commas.
//
//	log-level: debug
//	log_format: json
//	runs: 32
//
// Command-line flags override config file values. A file that does not parse
// is reported and ignored.
func resolve(r io.Reader) (kong.Resolver, error) {
	raw := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		log.Warn("ignoring configuration", slog.String("error", err.Error()))

		return config{}, nil
	}

	cfg := make(config, len(raw))
	for key, value := range raw {
		cfg[key] = native(value)
	}

	return cfg, nil
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, key := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := c[key]; ok {
			return value, nil
		}
	}

	return nil, nil
}

// native converts a decoded YAML value into a form kong's mappers accept.
func native(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		elem := make([]string, 0, len(v))
		for _, e := range v {
			switch s := native(e).(type) {
			case string:
				elem = append(elem, s)
			case bool:
				elem = append(elem, strconv.FormatBool(s))
			}
		}

		return strings.Join(elem, ",")
	default:
		return v
	}
}
