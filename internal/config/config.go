package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/raspy-go/raspy/internal/model"
)

// EnvVar names the environment variable that points at a config file when
// --config is not given.
const EnvVar = "RASPY_CONFIG"

// candidateNames are looked up in the working directory, in order.
var candidateNames = []string{".raspy.yaml", ".raspy.yml", ".raspy.jsonc", ".raspy.json"}

// Config holds user defaults for the raspy tools. Every field is optional;
// Default() supplies the values used when no file is present.
type Config struct {
	// CreationOptions are GTiff creation options (KEY=VALUE) used when
	// writing rasters.
	CreationOptions []string `mapstructure:"creationOptions"`

	// ComputeStats stores band statistics in written rasters.
	ComputeStats bool `mapstructure:"computeStats"`

	// Palette is the default continuous palette for the plot tool.
	Palette string `mapstructure:"palette"`

	// NodataColor is the colour used for nodata cells when plotting.
	NodataColor string `mapstructure:"nodataColor"`

	// CatalogPath is the SQLite file used by the catalog tools.
	CatalogPath string `mapstructure:"catalogPath"`

	// Classes is a default categorical class table (cell value → colour).
	Classes map[int]string `mapstructure:"classes"`

	// Source is the file the config was loaded from; empty for defaults.
	Source string `mapstructure:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CreationOptions: []string{"COMPRESS=LZW"},
		ComputeStats:    true,
		Palette:         "kindlmann",
		NodataColor:     "black",
		CatalogPath:     "raspy-catalog.db",
	}
}

// Locate returns the config file to use. An explicit path must exist. With
// no explicit path the environment variable and then the working directory
// are consulted; "" means no config file (use defaults).
func Locate(explicit, workDir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: config file %s does not exist", model.ErrNotFound, explicit)
		}
		return explicit, nil
	}
	if env := os.Getenv(EnvVar); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("%w: config file %s (from $%s) does not exist", model.ErrNotFound, env, EnvVar)
		}
		return env, nil
	}
	for _, name := range candidateNames {
		p := filepath.Join(workDir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Load reads path (if non-empty) on top of Default(). Unknown keys are an
// error so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := readGeneric(path)
	if err != nil {
		return nil, err
	}
	if err := decode(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w: config %s: %v", model.ErrInvalidArgument, path, err)
	}
	cfg.Source = path

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("%w: config %s: %w", model.ErrInvalidArgument, path, errors.Join(asErrors(errs)...))
	}
	return cfg, nil
}

// LoadClasses reads a standalone class table: a mapping of integer cell
// values to colour strings, in YAML or JSONC.
//
// Example (classes.yaml):
//
//	0: red
//	1: black
//	255: white
func LoadClasses(path string) (map[int]string, error) {
	raw, err := readGeneric(path)
	if err != nil {
		return nil, err
	}
	var classes map[int]string
	if err := decode(raw, &classes); err != nil {
		return nil, fmt.Errorf("%w: class table %s must map integers to colour strings: %v",
			model.ErrInvalidArgument, path, err)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: class table %s is empty", model.ErrInvalidArgument, path)
	}
	return classes, nil
}

// readGeneric parses a YAML or JSONC file into a generic map, choosing the
// parser by extension.
func readGeneric(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", model.ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrIO, path, err)
	}

	raw := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", model.ErrInvalidArgument, path, err)
		}
	case ".json", ".jsonc":
		// Strip comments and trailing commas before handing the bytes to
		// encoding/json.
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", model.ErrInvalidArgument, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s: unsupported config format (use .yaml, .yml, .json or .jsonc)",
			model.ErrInvalidArgument, path)
	}
	return raw, nil
}

// decode maps a generic document onto out. Weak typing lets JSON's string
// keys ("255") land in integer-keyed maps.
func decode(raw map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
