package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a config file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat validates a format name. It accepts "yml" as YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown config format %q (expected yaml or toml)", name)
	}
}

// FormatForPath picks the format from a file extension. Anything other
// than .toml is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) (*Config, error) {
	switch format {
	case FormatTOML:
		return FromTOML(data)
	case FormatYAML:
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}

// Encode serializes cfg in the given format.
func (c *Config) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return c.ToTOML()
	case FormatYAML:
		return c.ToYAML()
	default:
		return nil, fmt.Errorf("unknown config format %q", format)
	}
}
