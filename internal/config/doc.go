// Package config defines the updater settings and provides helpers to load,
// validate, edit and save them.
//
// The file format follows the extension: YAML for .yaml/.yml, TOML for .toml
// and JSON for everything else.
package config
