package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/phantomit/errors"
)

// DefaultFileName is the file written by WriteDefault.
const DefaultFileName = ".phantomit.json"

// FileNames lists the override files searched at the project root, in order.
var FileNames = []string{DefaultFileName, ".phantomit.yml", ".phantomit.yaml", ".phantomit.toml"}

// Loaded is the result of reading one override file.
type Loaded struct {
	Config WatchConfig
	Path   string
	// Unknown holds keys present in the file that no field consumed.
	Unknown []string
}

// FindConfigFile returns the first override file present in dir.
func FindConfigFile(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadFile reads path and merges it over the defaults. The merge is shallow:
// a key present in the file replaces the default value outright.
func LoadFile(path string) (*Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}

	raw, err := parse(path, data)
	if err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}

	cfg := Default()
	unknown, err := decodeOver(&cfg, raw)
	if err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.ConfigInvalid(path, err)
	}

	return &Loaded{Config: cfg, Path: path, Unknown: unknown}, nil
}

// Load returns the effective configuration for dir. A missing file yields the
// defaults; an unreadable or invalid file is reported through log and also
// yields the defaults.
func Load(dir string, log logrus.FieldLogger) WatchConfig {
	path, err := FindConfigFile(dir)
	if err != nil {
		log.Debug("No config file found, using defaults")
		return Default()
	}

	loaded, err := LoadFile(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("Could not load config, using defaults")
		return Default()
	}

	if len(loaded.Unknown) > 0 {
		log.WithFields(logrus.Fields{
			"path": path,
			"keys": strings.Join(loaded.Unknown, ","),
		}).Warn("Ignoring unknown config keys")
	}

	log.WithField("path", path).Debug("Loaded config")
	return loaded.Config
}

// WriteDefault writes the default configuration to dir/.phantomit.json. It
// fails with an error wrapping os.ErrExist if the file is already there.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, DefaultFileName)

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func parse(path string, data []byte) (map[string]interface{}, error) {
	raw := map[string]interface{}{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}

	// An empty YAML document decodes to a nil map.
	if raw == nil {
		raw = map[string]interface{}{}
	}
	return raw, nil
}

// decodeOver writes raw onto cfg, leaving fields absent from raw untouched.
// Lists are replaced, never merged element-wise.
func decodeOver(cfg *WatchConfig, raw map[string]interface{}) ([]string, error) {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Metadata:         &md,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	return md.Unused, nil
}
