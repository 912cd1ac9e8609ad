// Package config provides the embedded starter workspace file for Autorun.
package config

import _ "embed"

// WorkspaceTemplate is the starter workspace file written by
// "autorun config create".
//
//go:embed autorun.config.json
var WorkspaceTemplate []byte
