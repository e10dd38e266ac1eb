package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned when editing a key the config does not have.
var ErrUnknownKey = errors.New("unknown config key")

// Entry is a single key and its current value.
type Entry struct {
	// Key is the name used in the config file.
	Key string
	// Value is the string form of the setting, empty when unset.
	Value string
}

// field binds a config key to accessors on Config.
type field struct {
	key string
	get func(*Config) string
	set func(*Config, string) error
}

//nolint:gochecknoglobals // Static key table shared by Set, Unset and Entries.
var fields = []field{
	{
		key: "url",
		get: func(c *Config) string { return c.URL },
		set: func(c *Config, v string) error { c.URL = v; return nil },
	},
	{
		key: "path",
		get: func(c *Config) string { return c.Path },
		set: func(c *Config, v string) error { c.Path = v; return nil },
	},
	{
		key: "pattern",
		get: func(c *Config) string { return c.Pattern },
		set: func(c *Config, v string) error { c.Pattern = v; return nil },
	},
	{
		key: "unzip",
		get: func(c *Config) string { return c.Unzip },
		set: func(c *Config, v string) error { c.Unzip = v; return nil },
	},
	{
		key: "proxy",
		get: func(c *Config) string { return c.Proxy },
		set: func(c *Config, v string) error { c.Proxy = v; return nil },
	},
	{
		key: "timeout",
		get: func(c *Config) string { return c.Timeout.String() },
		set: func(c *Config, v string) error { return c.Timeout.UnmarshalText([]byte(v)) },
	},
	{
		key: "install",
		get: func(c *Config) string { return string(c.Install) },
		set: func(c *Config, v string) error { c.Install = InstallMode(v); return nil },
	},
	{
		key: "archive",
		get: func(c *Config) string { return c.Archive },
		set: func(c *Config, v string) error { c.Archive = v; return nil },
	},
}

// Keys lists every editable key in file order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.key)
	}

	return keys
}

// Entries returns every key with its current value.
func Entries(cfg *Config) []Entry {
	entries := make([]Entry, 0, len(fields))
	for _, f := range fields {
		entries = append(entries, Entry{Key: f.key, Value: f.get(cfg)})
	}

	return entries
}

// Set assigns value to key.
func Set(cfg *Config, key, value string) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	f, err := lookup(key)
	if err != nil {
		return err
	}

	if err = f.set(cfg, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("set %s: %w", f.key, err)
	}

	return nil
}

// Unset clears key back to its zero value.
func Unset(cfg *Config, key string) error {
	return Set(cfg, key, "")
}

// ParseAssignment splits "key=value" as passed to the config command.
func ParseAssignment(s string) (string, string, error) {
	key, value, found := strings.Cut(s, "=")
	if !found || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("%q is not in <key>=<value> form", s)
	}

	return strings.TrimSpace(key), value, nil
}

func lookup(key string) (field, error) {
	normalized := strings.ToLower(strings.TrimSpace(key))
	for _, f := range fields {
		if f.key == normalized {
			return f, nil
		}
	}

	return field{}, fmt.Errorf("%q (known keys: %s): %w", key, strings.Join(Keys(), ", "), ErrUnknownKey)
}
