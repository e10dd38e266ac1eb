// Package release contains core domain types for the release feed.
//
// It defines Version (a comparable major.minor.patch triple), Info (the
// latest release with its assets) and the asset selection rule used to pick
// the artifact that matches a configured pattern.
package release
