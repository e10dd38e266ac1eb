// Package configure implements the config command: listing the settings
// file as a table and setting or removing single keys in place.
package configure
