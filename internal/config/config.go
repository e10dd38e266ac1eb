package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// InstallMode selects how a downloaded asset is put in place.
type InstallMode string

const (
	// InstallExtract unpacks the asset with the external archive tool.
	InstallExtract InstallMode = "extract"
	// InstallReplace treats the asset as the new executable and swaps it in.
	InstallReplace InstallMode = "replace"
)

// Config holds the settings of a single update run.
type Config struct {
	// URL is the release feed endpoint returning the latest release as JSON.
	URL string `json:"url" yaml:"url" toml:"url"`
	// Path is the installed target executable.
	Path string `json:"path" yaml:"path" toml:"path"`
	// Pattern is a regular expression matched against the start of asset names.
	Pattern string `json:"pattern" yaml:"pattern" toml:"pattern"`
	// Unzip is the path or name of the archive tool (7-Zip compatible).
	Unzip string `json:"unzip" yaml:"unzip" toml:"unzip"`
	// Proxy is an optional proxy URL for both the feed and the download.
	Proxy string `json:"proxy,omitempty" yaml:"proxy,omitempty" toml:"proxy,omitempty"`
	// Timeout bounds each HTTP request; zero keeps the client default.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	// Install selects between extracting and replacing; empty means extract.
	Install InstallMode `json:"install,omitempty" yaml:"install,omitempty" toml:"install,omitempty"`
	// Archive is the file name of the temporary download inside the install directory.
	Archive string `json:"archive,omitempty" yaml:"archive,omitempty" toml:"archive,omitempty"`
}

const (
	// DefaultConfigFilename is the file name used inside the user's home directory.
	DefaultConfigFilename = "app-updater.json"

	// DefaultArchiveBase is the base name of the temporary download.
	DefaultArchiveBase = "app-updater-download"

	// DefaultFilePermissions is the permission used when writing config files.
	DefaultFilePermissions = 0o600

	// defaultDirPermissions is used when the config directory has to be created.
	defaultDirPermissions = 0o750
)

var (
	// ErrNotFound is returned when the config file does not exist.
	ErrNotFound = errors.New("config not found")
	// ErrMalformed is returned when the config file cannot be decoded.
	ErrMalformed = errors.New("config malformed")
	// ErrInvalid is returned when a decoded config lacks required settings.
	ErrInvalid = errors.New("config invalid")

	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet   = errors.New("configuration is not set")
	// errUnsupportedProxy is returned for proxies the HTTP transport cannot dial.
	errUnsupportedProxy = errors.New("unsupported proxy")
)

// DefaultPath returns the per-user config location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFilename
	}

	return filepath.Join(home, DefaultConfigFilename)
}

// Load reads configuration from path. It only checks that the file decodes;
// call Validate before using the result for an update.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err = decode(path, contents, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, ErrMalformed, err)
	}

	return &cfg, nil
}

// Save writes cfg to path, creating the parent directory when needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultPath()
	}

	data, err := encode(path, cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(filepath.Clean(path)), defaultDirPermissions); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	// Restrict permissions.
	if err = os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings required by an update run.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.URL == "" {
		return fmt.Errorf("url must be provided: %w", ErrInvalid)
	}

	feedURL, err := url.ParseRequestURI(cfg.URL)
	if err != nil || (feedURL.Scheme != "http" && feedURL.Scheme != "https") {
		return fmt.Errorf("url %q is not an http(s) address: %w", cfg.URL, ErrInvalid)
	}

	if cfg.Path == "" {
		return fmt.Errorf("path must be provided: %w", ErrInvalid)
	}

	if cfg.Pattern == "" {
		return fmt.Errorf("pattern must be provided: %w", ErrInvalid)
	}

	if _, err = regexp.Compile(cfg.Pattern); err != nil {
		return fmt.Errorf("pattern %q: %w: %w", cfg.Pattern, ErrInvalid, err)
	}

	switch cfg.InstallMode() {
	case InstallExtract:
		if cfg.Unzip == "" {
			return fmt.Errorf("unzip must be provided for %s mode: %w", InstallExtract, ErrInvalid)
		}
	case InstallReplace:
	default:
		return fmt.Errorf("unknown install mode %q: %w", cfg.Install, ErrInvalid)
	}

	if cfg.Proxy != "" {
		if _, err = cfg.ProxyURL(); err != nil {
			return fmt.Errorf("proxy %q: %w: %w", cfg.Proxy, ErrInvalid, err)
		}
	}

	if cfg.Timeout < 0 {
		return fmt.Errorf("timeout %s is negative: %w", cfg.Timeout, ErrInvalid)
	}

	return nil
}

// InstallMode returns the configured mode, defaulting to extract.
func (c *Config) InstallMode() InstallMode {
	if c.Install == "" {
		return InstallExtract
	}

	return InstallMode(strings.ToLower(string(c.Install)))
}

// ProxyURL parses the proxy setting. It returns nil when no proxy is set.
// A value without a scheme, such as "127.0.0.1:7890", is taken as an http proxy.
func (c *Config) ProxyURL() (*url.URL, error) {
	raw := strings.TrimSpace(c.Proxy)
	if raw == "" {
		return nil, nil //nolint:nilnil // No proxy is a valid state.
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	proxyURL, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(proxyURL.Scheme) {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("scheme %q: %w", proxyURL.Scheme, errUnsupportedProxy)
	}

	if proxyURL.Host == "" {
		return nil, fmt.Errorf("no host in %q: %w", c.Proxy, errUnsupportedProxy)
	}

	return proxyURL, nil
}

// InstallDir is the directory that holds the target executable.
func (c *Config) InstallDir() string {
	return filepath.Dir(filepath.Clean(c.Path))
}

// ArchivePath is where the selected asset is downloaded to.
func (c *Config) ArchivePath(assetName string) string {
	name := c.Archive
	if name == "" {
		name = DefaultArchiveBase + assetExtension(assetName)
	}

	return filepath.Join(c.InstallDir(), filepath.Base(name))
}

// assetExtension keeps compound extensions such as ".tar.gz".
func assetExtension(name string) string {
	lower := strings.ToLower(name)
	for _, compound := range []string{".tar.gz", ".tar.xz", ".tar.bz2"} {
		if strings.HasSuffix(lower, compound) {
			return name[len(name)-len(compound):]
		}
	}

	return filepath.Ext(name)
}

type format int

const (
	formatJSON format = iota
	formatYAML
	formatTOML
)

func formatOf(path string) format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".toml":
		return formatTOML
	default:
		return formatJSON
	}
}

func decode(path string, contents []byte, cfg *Config) error {
	switch formatOf(path) {
	case formatYAML:
		return yaml.Unmarshal(contents, cfg)
	case formatTOML:
		_, err := toml.Decode(string(contents), cfg)
		return err
	default:
		return json.Unmarshal(contents, cfg)
	}
}

func encode(path string, cfg *Config) ([]byte, error) {
	switch formatOf(path) {
	case formatYAML:
		return yaml.Marshal(cfg)
	case formatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}

		return append(data, '\n'), nil
	}
}
