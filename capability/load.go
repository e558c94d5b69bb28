package capability

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfig is the environment variable [LoadFromEnv] reads the config file
// path from.
const EnvConfig = `STACKBOOT_CONFIG`

// Format is a capability file encoding.
type Format string

const (
	FormatYAML Format = `yaml`
	FormatTOML Format = `toml`
)

var (
	// ErrUnknownFormat is returned for file extensions other than .yaml,
	// .yml, or .toml.
	ErrUnknownFormat = errors.New(`capability: unknown format`)

	// ErrUnknownKey is returned for config keys that don't match any flag.
	ErrUnknownKey = errors.New(`capability: unknown key`)
)

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case `.yaml`, `.yml`:
		return FormatYAML, nil
	case `.toml`:
		return FormatTOML, nil
	default:
		return ``, fmt.Errorf(`%w: %q`, ErrUnknownFormat, path)
	}
}

// Load reads a flat map of flag keys (see [Flag.Key]) to values, from a YAML
// or TOML file, applying them over the defaults, then any opts. Unknown keys
// are an error. Boolean flags accept true, false, 0 or 1.
func Load(path string, opts ...Option) (*Set, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(`capability: %w`, err)
	}
	set, err := Parse(data, format, opts...)
	if err != nil {
		return nil, fmt.Errorf(`%s: %w`, path, err)
	}
	return set, nil
}

// LoadFromEnv calls [Load] with the path from [EnvConfig], or returns the
// defaults (with opts applied), if it is unset. There is no fallback to any
// other location. A nil getenv uses [os.Getenv].
func LoadFromEnv(getenv func(string) string, opts ...Option) (*Set, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if path := getenv(EnvConfig); path != `` {
		return Load(path, opts...)
	}
	return New(opts...)
}

// Parse decodes data, as per [Load].
func Parse(data []byte, format Format, opts ...Option) (*Set, error) {
	var values map[string]any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf(`capability: decode yaml: %w`, err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf(`capability: decode toml: %w`, err)
		}
	default:
		return nil, fmt.Errorf(`%w: %q`, ErrUnknownFormat, format)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	all := make([]Option, 0, len(keys)+len(opts))
	for _, key := range keys {
		f, ok := FlagByKey(key)
		if !ok {
			errs = append(errs, fmt.Errorf(`%w: %q`, ErrUnknownKey, key))
			continue
		}
		all = append(all, With(f, values[key]))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return New(append(all, opts...)...)
}
