package updater

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/app-updater/internal/config"
	"github.com/oshokin/app-updater/internal/domain/release"
	"github.com/oshokin/app-updater/internal/service/common"
	"github.com/oshokin/app-updater/internal/service/fileversion"
	"github.com/oshokin/app-updater/internal/service/install"
	"github.com/oshokin/app-updater/internal/service/process"
)

// ReleaseSource fetches the release description and downloads its assets.
type ReleaseSource interface {
	FetchLatest(ctx context.Context, feedURL string) (*release.Info, error)
	Download(ctx context.Context, assetURL, destination string) (int64, error)
}

// VersionReader reads the installed version of an executable.
type VersionReader interface {
	Read(ctx context.Context, path string) (string, error)
}

// ProcessTerminator stops running instances of an executable.
type ProcessTerminator interface {
	KillByExecutablePath(ctx context.Context, path string) (int, error)
}

// Installer puts a downloaded asset in place.
type Installer interface {
	Extract(ctx context.Context, tool, archivePath, workingDir string) error
	Replace(ctx context.Context, sourcePath, targetPath string) error
}

// Dependencies are the collaborators of a run.
type Dependencies struct {
	// NewSource builds the feed client once the config is known.
	NewSource func(cfg *config.Config) (ReleaseSource, error)
	// Versions reads the installed version.
	Versions VersionReader
	// Processes stops the running application.
	Processes ProcessTerminator
	// Installer extracts or replaces.
	Installer Installer
}

// DefaultDependencies wires the real HTTP client, process table, version reader and installer.
func DefaultDependencies() *Dependencies {
	return &Dependencies{
		NewSource: NewReleaseSource,
		Versions:  fileversion.NewReader(),
		Processes: process.NewTerminator(),
		Installer: packageInstaller{},
	}
}

// NewReleaseSource builds a common.Client honouring the proxy and timeout settings.
//
//nolint:ireturn // Callers only need the ReleaseSource behaviour.
func NewReleaseSource(cfg *config.Config) (ReleaseSource, error) {
	proxyURL, err := cfg.ProxyURL()
	if err != nil {
		return nil, fmt.Errorf("parse proxy: %w", err)
	}

	opts := []common.Option{
		common.WithTimeout(time.Duration(cfg.Timeout)),
	}

	if proxyURL != nil {
		opts = append(opts, common.WithProxy(proxyURL))
	}

	return common.NewClient(opts...), nil
}

// packageInstaller adapts the install package functions to Installer.
type packageInstaller struct{}

func (packageInstaller) Extract(ctx context.Context, tool, archivePath, workingDir string) error {
	return install.Extract(ctx, tool, archivePath, workingDir)
}

func (packageInstaller) Replace(ctx context.Context, sourcePath, targetPath string) error {
	return install.Replace(ctx, sourcePath, targetPath)
}
