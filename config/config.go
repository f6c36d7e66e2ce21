// Package config provides application level configuration backed by koanf.
//
// Configuration is loaded in the following order, with later sources
// overriding earlier ones:
//  1. Built-in defaults
//  2. An auto-discovered ordergate.yaml in the working directory or a parent
//  3. Environment variables with an OG__ prefix
//
// Environment variable transformation:
//   - OG__SERVER__PORT → server.port
//   - OG__AUTH__SIGNING_KEY → auth.signingKey (underscores become camelCase)
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Filename of the standard configuration file.
const ConfigFile = "ordergate.yaml"

// Config is the global koanf instance.
var Config = koanf.New(".")

func init() {
	loadDefaults()

	if cfg := searchForConfig(ConfigFile, "."); cfg != "" {
		if err := Config.Load(file.Provider(cfg), yaml.Parser()); err != nil {
			panic("error loading config: " + err.Error())
		}
	}

	if err := Config.Load(env.Provider("OG__", ".", transformEnv), nil); err != nil {
		panic("error loading env config: " + err.Error())
	}
}

func loadDefaults() {
	defaults := map[string]interface{}{
		"name":        "ordergate",
		"server.host": "localhost",
		"server.port": 8000,

		// memory | sqlite | firestore
		"store.driver":     "memory",
		"store.sqlitePath": "ordergate.db",

		// local | firebase
		"auth.mode":        "local",
		"auth.tokenMaxAge": "24h",

		"firebase.projectId":       "",
		"firebase.credentialsFile": "",
	}
	if err := Config.Load(confmap.Provider(defaults, "."), nil); err != nil {
		panic("error loading config defaults: " + err.Error())
	}
}

// LoadFile loads additional configuration from a YAML file into the global
// Config instance. Call this before reading any values.
func LoadFile(path string) {
	if err := Config.Load(file.Provider(path), yaml.Parser()); err != nil {
		panic("error loading config file '" + path + "': " + err.Error())
	}
}

// String returns the string value for the given key.
func String(key string) string {
	return Config.String(key)
}

// Int returns the int value for the given key.
func Int(key string) int {
	return Config.Int(key)
}

// Bool returns the bool value for the given key.
func Bool(key string) bool {
	return Config.Bool(key)
}

// Duration returns the duration value for the given key. Duration strings
// like "5m", "1h", "30s" are parsed automatically.
func Duration(key string) time.Duration {
	return Config.Duration(key)
}

// Strings returns the string slice value for the given key.
func Strings(key string) []string {
	return Config.Strings(key)
}

// Bytes returns the byte slice value for the given key.
func Bytes(key string) []byte {
	return Config.Bytes(key)
}

// Exists checks if the given key exists in the configuration.
func Exists(key string) bool {
	return Config.Exists(key)
}

// searchForConfig recursively searches for a config file starting from
// startDir and walking up the directory tree until found or reaching the
// root.
func searchForConfig(filename string, startDir string) string {
	d, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	p := filepath.Join(d, filename)
	if _, err = os.Stat(p); err == nil {
		return p
	}

	parentDir := filepath.Dir(d)
	if parentDir == d {
		return ""
	}
	return searchForConfig(filename, parentDir)
}

// transformEnv converts OG__SERVER__PORT to server.port and
// OG__AUTH__SIGNING_KEY to auth.signingKey.
func transformEnv(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "OG__"))
	segments := strings.Split(s, "__")
	for i, segment := range segments {
		parts := strings.Split(segment, "_")
		for j := 1; j < len(parts); j++ {
			parts[j] = capitalize(parts[j])
		}
		segments[i] = strings.Join(parts, "")
	}

	return strings.Join(segments, ".")
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
