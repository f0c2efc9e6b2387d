// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding an explicit config path.
const FileEnv = "RSHEET_CFG_FILE"

// fileName is looked up in os.UserConfigDir when FileEnv is unset.
const fileName = "rsheet.yaml"

// ErrWrongType is returned when a key holds a value of another type.
var ErrWrongType = errors.New("config value has the wrong type")

// Type is a loaded configuration file. Namespace, usually the running
// command's name, makes getters try "<namespace>.<key>" before "<key>".
type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

// Config is the process wide configuration. Getters load it on first use.
var Config Type

func init() {
	_, _ = Load()
}

// Load reads the config file into Config, keeping the optional namespace.
func Load(namespace ...string) (Type, error) {
	path, err := getConfigFile()
	if err != nil {
		return Type{}, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return Type{}, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(body, &data); err != nil {
		return Type{}, fmt.Errorf("parse %s: %w", path, err)
	}

	Config = Type{Source: path, Data: data}
	if len(namespace) == 1 {
		Config.Namespace = namespace[0]
	}
	return Config, nil
}

// Path returns the config file Load would read, or "" when there is none.
func Path() string {
	p, err := getConfigFile()
	if err != nil {
		return ""
	}
	return p
}

// GetString returns the string at a dotted key, or the default when the key
// is missing.
func GetString(key string, defaultValue ...string) (string, error) {
	return lookup(key, defaultValue, func(v any) (string, bool) {
		s, ok := v.(string)
		return s, ok
	})
}

// GetInt returns the integer at a dotted key, or the default when the key is
// missing. YAML floats are truncated.
func GetInt(key string, defaultValue ...int) (int, error) {
	return lookup(key, defaultValue, func(v any) (int, bool) {
		switch n := v.(type) {
		case int:
			return n, true
		case int64:
			return int(n), true
		case float64:
			return int(n), true
		}
		return 0, false
	})
}

// GetBool returns the boolean at a dotted key, or the default when the key is
// missing.
func GetBool(key string, defaultValue ...bool) (bool, error) {
	return lookup(key, defaultValue, func(v any) (bool, bool) {
		b, ok := v.(bool)
		return b, ok
	})
}

// GetStringSlice returns the list of strings at a dotted key, or the default
// when the key is missing.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	return lookup(key, defaultValue, func(v any) ([]string, bool) {
		items, ok := v.([]interface{})
		if !ok {
			return nil, false
		}
		out := make([]string, len(items))
		for i, item := range items {
			if out[i], ok = item.(string); !ok {
				return nil, false
			}
		}
		return out, true
	})
}

// lookup finds key in Config and converts it. A single default is returned
// for missing keys. A value that does not convert is an error either way.
func lookup[T any](key string, defaultValue []T, convert func(any) (T, bool)) (T, error) {
	var zero T
	if len(Config.Data) == 0 {
		_, _ = Load(Config.Namespace)
	}

	raw, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return zero, err
	}

	v, ok := convert(raw)
	if !ok {
		return zero, fmt.Errorf("%w: %s is %T", ErrWrongType, key, raw)
	}
	return v, nil
}

// get walks the tree for the namespaced key, then the bare key.
func (cfg *Type) get(key string) (any, error) {
	candidates := []string{key}
	if cfg.Namespace != "" {
		candidates = []string{cfg.Namespace + "." + key, key}
	}

	for _, c := range candidates {
		if v, ok := walk(cfg.Data, strings.Split(c, ".")); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("config key not found: %s", strings.Join(candidates, " or "))
}

func walk(node any, path []string) (any, bool) {
	for _, p := range path {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if node, ok = m[p]; !ok {
			return nil, false
		}
	}
	return node, true
}

// getConfigFile resolves the config file from FileEnv, or rsheet.yaml in the
// user config directory. The file must exist and not be a directory.
func getConfigFile() (string, error) {
	if p := os.Getenv(FileEnv); p != "" {
		fi, err := os.Stat(p)
		switch {
		case err != nil:
			return "", fmt.Errorf("config file not found at %s path: %s", FileEnv, p)
		case fi.IsDir():
			return "", fmt.Errorf("%s points to a directory: %s", FileEnv, p)
		}
		log.Debugf("config file from %s: %s", FileEnv, p)
		return p, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, fileName)
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		log.Debugf("config file: %s", p)
		return p, nil
	}
	return "", errors.New("no config file found in standard locations")
}
