// Package config loads the optional raspy configuration file.
//
// The file may be YAML (.yaml/.yml, parsed with gopkg.in/yaml.v3) or JSON
// with comments (.json/.jsonc, stripped with github.com/tidwall/jsonc before
// encoding/json). Both formats are first decoded into a generic map and then
// into Config with github.com/mitchellh/mapstructure, so the two formats
// accept exactly the same keys.
//
// Key responsibilities:
//   - Locate the config file (--config flag, $RASPY_CONFIG, working directory)
//   - Load and decode it on top of the defaults
//   - Validate the decoded values and report every problem at once
//   - Load standalone class tables used by the plot tool
package config
