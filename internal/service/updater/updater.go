package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/oshokin/app-updater/internal/config"
	"github.com/oshokin/app-updater/internal/domain/release"
	"github.com/oshokin/app-updater/internal/logger"
)

var errNoDependencies = errors.New("dependencies are not set")

// Options are inputs accepted by the updater entry point.
type Options struct {
	// ConfigPath is the path to the settings file; empty means config.DefaultPath.
	ConfigPath string
	// Dependencies overrides the collaborators; nil uses DefaultDependencies.
	Dependencies *Dependencies
}

// Result summarizes a finished run.
type Result struct {
	// State is StateUpToDate, StateDone or StateFailed.
	State State
	// FailedAt is the step that failed when State is StateFailed.
	FailedAt State
	// Installed is the version found at config.Path.
	Installed release.Version
	// Latest is the version of the release tag.
	Latest release.Version
	// Asset is the selected artifact, empty when up to date.
	Asset release.Asset
	// ArchivePath is where the artifact was downloaded.
	ArchivePath string
	// Downloaded is the artifact size in bytes.
	Downloaded int64
	// Killed is the number of stopped application processes.
	Killed int
}

// runner holds the mutable state of a single update execution.
// It is unexported; call Run(ctx, Options) from callers.
type runner struct {
	configPath string             // Where the settings are read from.
	deps       *Dependencies      // Collaborators doing the actual work.
	cfg        *config.Config     // Settings loaded in StateLoadingConfig.
	source     ReleaseSource      // Feed client bound to the config proxy.
	info       *release.Info      // Release fetched in StateFetchingRelease.
	state      State              // Current workflow step.
	result     *Result            // Accumulated outcome.
	steps      map[State]stepFunc // Handler per non-terminal state.
}

// stepFunc performs the work of one state and returns the next one.
type stepFunc func(ctx context.Context) (State, error)

// Run executes the update workflow and is the public entry point for the CLI.
// The result is returned on failure too; its State is then StateFailed.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "app-updater")

	up, err := newRunner(opts)
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()

	if err = up.run(ctx); err != nil {
		logger.ErrorKV(ctx, "Update failed", "step", up.result.FailedAt.String(), "error", err)
		return up.result, err
	}

	logger.InfoKV(ctx, "Updater completed", "state", up.result.State.String(), "elapsed", time.Since(startedAt))

	return up.result, nil
}

func newRunner(opts *Options) (*runner, error) {
	if opts == nil {
		opts = new(Options)
	}

	deps := opts.Dependencies
	if deps == nil {
		deps = DefaultDependencies()
	}

	if deps.NewSource == nil || deps.Versions == nil || deps.Processes == nil || deps.Installer == nil {
		return nil, errNoDependencies
	}

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	u := &runner{
		configPath: configPath,
		deps:       deps,
		state:      StateLoadingConfig,
		result:     new(Result),
	}

	u.steps = map[State]stepFunc{
		StateLoadingConfig:     u.loadConfig,
		StateFetchingRelease:   u.fetchRelease,
		StateComparingVersions: u.compareVersions,
		StateDownloading:       u.download,
		StateTerminating:       u.terminate,
		StateExtracting:        u.install,
	}

	return u, nil
}

// run drives the state machine until a terminal state.
func (u *runner) run(ctx context.Context) error {
	for !u.state.Terminal() {
		step, ok := u.steps[u.state]
		if !ok {
			return u.fail(ctx, fmt.Errorf("no handler for %s: %w", u.state, ErrIllegalTransition))
		}

		logger.DebugKV(ctx, "Entering step", "state", u.state.String())

		next, err := step(ctx)
		if err != nil {
			return u.fail(ctx, err)
		}

		if err = u.advance(next); err != nil {
			return u.fail(ctx, err)
		}
	}

	u.result.State = u.state

	return nil
}

func (u *runner) advance(next State) error {
	if err := checkTransition(u.state, next); err != nil {
		return err
	}

	u.state = next

	return nil
}

func (u *runner) fail(ctx context.Context, err error) error {
	logger.DebugKV(ctx, "Step failed", "state", u.state.String())

	u.result.FailedAt = u.state
	u.result.State = StateFailed
	u.state = StateFailed

	return fmt.Errorf("%s: %w", u.result.FailedAt, err)
}

// loadConfig reads and validates the settings and binds the feed client to them.
func (u *runner) loadConfig(ctx context.Context) (State, error) {
	logger.InfoKV(ctx, "Loading configuration", "path", u.configPath)

	cfg, err := config.Load(u.configPath)
	if err != nil {
		return StateFailed, err
	}

	if err = config.Validate(cfg); err != nil {
		return StateFailed, err
	}

	if cfg.Proxy != "" {
		logger.InfoKV(ctx, "Using proxy", "proxy", cfg.Proxy)
	} else {
		logger.Info(ctx, "Updating without proxy")
	}

	source, err := u.deps.NewSource(cfg)
	if err != nil {
		return StateFailed, fmt.Errorf("create release client: %w", err)
	}

	u.cfg = cfg
	u.source = source

	return StateFetchingRelease, nil
}

func (u *runner) fetchRelease(ctx context.Context) (State, error) {
	logger.InfoKV(ctx, "Fetching latest release", "url", u.cfg.URL)

	info, err := u.source.FetchLatest(ctx, u.cfg.URL)
	if err != nil {
		return StateFailed, err
	}

	latest, err := info.Version()
	if err != nil {
		return StateFailed, fmt.Errorf("release tag: %w", err)
	}

	u.info = info
	u.result.Latest = latest

	logger.InfoKV(ctx, "Latest version", "version", info.TagName, "assets", len(info.Assets))

	return StateComparingVersions, nil
}

func (u *runner) compareVersions(ctx context.Context) (State, error) {
	raw, err := u.deps.Versions.Read(ctx, u.cfg.Path)
	if err != nil {
		return StateFailed, err
	}

	installed, err := release.ParseVersion(raw)
	if err != nil {
		return StateFailed, fmt.Errorf("installed version: %w", err)
	}

	u.result.Installed = installed

	logger.InfoKV(ctx, "Current version", "version", raw, "path", u.cfg.Path)

	if installed.Compare(u.result.Latest) >= 0 {
		logger.InfoKV(ctx, "Up to date", "installed", installed.String(), "latest", u.result.Latest.String())
		return StateUpToDate, nil
	}

	logger.InfoKV(ctx, "Update available", "installed", installed.String(), "latest", u.result.Latest.String())

	return StateDownloading, nil
}

func (u *runner) download(ctx context.Context) (State, error) {
	asset, err := release.SelectAsset(u.info.Assets, u.cfg.Pattern)
	if err != nil {
		return StateFailed, err
	}

	archivePath := u.cfg.ArchivePath(asset.Name)

	u.result.Asset = asset
	u.result.ArchivePath = archivePath

	logger.InfoKV(ctx, "Start downloading file", "asset", asset.Name, "url", asset.DownloadURL, "to", archivePath)

	written, err := u.source.Download(ctx, asset.DownloadURL, archivePath)
	if err != nil {
		return StateFailed, err
	}

	u.result.Downloaded = written

	logger.InfoKV(ctx, "Downloaded file", "path", archivePath, "size", humanize.Bytes(uint64(max(written, 0))))

	return StateTerminating, nil
}

func (u *runner) terminate(ctx context.Context) (State, error) {
	logger.InfoKV(ctx, "Killing running process", "path", u.cfg.Path)

	killed, err := u.deps.Processes.KillByExecutablePath(ctx, u.cfg.Path)
	if err != nil {
		return StateFailed, err
	}

	u.result.Killed = killed

	if killed == 0 {
		logger.Info(ctx, "No running process found")
	}

	return StateExtracting, nil
}

func (u *runner) install(ctx context.Context) (State, error) {
	archivePath := u.result.ArchivePath

	switch u.cfg.InstallMode() {
	case config.InstallReplace:
		logger.InfoKV(ctx, "Replacing executable", "path", u.cfg.Path)

		if err := u.deps.Installer.Replace(ctx, archivePath, u.cfg.Path); err != nil {
			return StateFailed, err
		}
	default:
		logger.InfoKV(ctx, "Extracting archive", "archive", archivePath, "dir", u.cfg.InstallDir())

		if err := u.deps.Installer.Extract(ctx, u.cfg.Unzip, archivePath, u.cfg.InstallDir()); err != nil {
			return StateFailed, err
		}
	}

	if err := os.Remove(archivePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warnf(ctx, "Could not remove downloaded archive %s: %v", archivePath, err)
	}

	logger.InfoKV(ctx, "Update installed", "version", u.result.Latest.String())

	return StateDone, nil
}
