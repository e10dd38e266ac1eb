// Package version exposes build metadata of the app-updater binary.
//
// Version, Commit and BuildTime are injected with -ldflags "-X ..." at build
// time and keep placeholder values for local builds.
package version
