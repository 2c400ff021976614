package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("lispfront"), "/path/to/config.yaml")
//
// If the document has a top-level mapping under name, only that mapping is
// used; otherwise the whole document is. Nested mappings are flattened by
// joining keys with hyphens, so
//
//	lispfront:
//	  log:
//	    level: debug
//	  cache:
//	    capacity: 500
//	    ttl: 10m
//
// sets --log-level=debug, --cache-capacity=500, and --cache-ttl=10m. Keys may
// use underscores in place of hyphens. Command-line flags override config
// file values.
func resolve(name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return config{}, nil
			}

			return nil, err
		}

		if scoped, ok := doc[name].(map[string]any); ok {
			doc = scoped
		}

		flat := config{}
		flat.flatten("", doc)

		return flat, nil
	}
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

func (r config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := v.(type) {
		case map[string]any:
			r.flatten(key, v)
		case []any:
			r[key] = v
		case nil:
		case string, bool:
			r[key] = v
		default:
			// Kong parses numbers and durations from their text.
			r[key] = fmt.Sprint(v)
		}
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}
