// Package common holds the HTTP client shared by the release feed lookup and
// the asset download.
//
// The client sends a browser-like User-Agent (some release endpoints reject
// default Go identifiers), optionally routes every request through a proxy
// and treats any non-200 answer as a network failure.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
