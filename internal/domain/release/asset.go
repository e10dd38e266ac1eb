package release

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrAssetAmbiguous is returned when the pattern does not match exactly one asset.
	ErrAssetAmbiguous = errors.New("asset selection is ambiguous")
	// ErrInvalidPattern is returned when the asset pattern is not a valid regular expression.
	ErrInvalidPattern = errors.New("invalid asset pattern")
)

// Asset is a single downloadable file attached to a release.
type Asset struct {
	// Name is the file name of the artifact.
	Name string `json:"name"`
	// DownloadURL is where the artifact bytes are served.
	DownloadURL string `json:"browser_download_url"`
}

// Info describes the latest published release.
type Info struct {
	// TagName is the version string of the release.
	TagName string `json:"tag_name"`
	// Assets are the downloadable artifacts in feed order.
	Assets []Asset `json:"assets"`
}

// Version parses the release tag.
func (i *Info) Version() (Version, error) {
	return ParseVersion(i.TagName)
}

// SelectAsset returns the only asset whose name matches pattern at its start.
func SelectAsset(assets []Asset, pattern string) (Asset, error) {
	// Anchor at the start so "app-win.*" does not match "my-app-win.7z".
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	var matches []Asset

	for _, asset := range assets {
		if re.MatchString(asset.Name) {
			matches = append(matches, asset)
		}
	}

	if len(matches) != 1 {
		return Asset{}, fmt.Errorf("pattern %q matched %d of %d assets: %w",
			pattern, len(matches), len(assets), ErrAssetAmbiguous)
	}

	return matches[0], nil
}
