// Package config resolves the explicit configuration value handed to the validator.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LOCKSTEP_XML_PATH.
const EnvPrefix = "LOCKSTEP"

// Config keys, shared with the CLI flag bindings.
const (
	KeyXMLPath  = "xml_path"
	KeyRoot     = "root"
	KeyFormat   = "format"
	KeyLogLevel = "log_level"
	KeyPins     = "pins"
)

// Default directory names looked up under the working directory, in order.
// A later hit wins, so XML/ takes precedence over xml/.
var defaultXMLDirs = []string{"xml", "XML"}

// Config is the resolved configuration for one validation run.
type Config struct {
	// XMLPath is a directory, file or afs URL holding introspection documents.
	XMLPath string `yaml:"xml_path" json:"xml_path"`
	// Root is the Go module scanned for //lockstep:validate directives.
	Root     string `yaml:"root" json:"root"`
	Format   string `yaml:"format" json:"format"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	// Pins maps a member name to the interface used when no filter is given.
	Pins map[string]string `yaml:"pins" json:"pins,omitempty"`
}

// NewViper returns a viper instance with defaults, env overrides and the
// optional .lockstep.yaml config file wired in.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(".lockstep")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return v
}

// Load reads .env (if present) and the config file into a Config.
// Flags bound to v take precedence over env, which takes precedence over the file.
func Load(v *viper.Viper) (Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := Config{
		XMLPath:  v.GetString(KeyXMLPath),
		Root:     v.GetString(KeyRoot),
		Format:   v.GetString(KeyFormat),
		LogLevel: v.GetString(KeyLogLevel),
		Pins:     v.GetStringMapString(KeyPins),
	}
	return cfg, nil
}

// Resolve fills in XMLPath from the default directories when it is empty and
// makes local paths absolute.
func (c Config) Resolve() (Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return c, fmt.Errorf("getting working directory: %w", err)
	}
	path, err := ResolveXMLPath(c.XMLPath, wd)
	if err != nil {
		return c, err
	}
	c.XMLPath = path
	return c, nil
}

// ResolveXMLPath returns explicit when set, otherwise the default XML directory under dir.
// Local paths are canonicalised; URLs with a scheme are returned untouched.
func ResolveXMLPath(explicit, dir string) (string, error) {
	path := explicit
	if path == "" {
		for _, name := range defaultXMLDirs {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && info.IsDir() {
				path = candidate
			}
		}
	}
	if path == "" {
		return "", fmt.Errorf("no XML path provided and no default xml/ or XML/ directory in %s", dir)
	}
	if IsURL(path) {
		return path, nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("resolving XML path: %w", err)
	}
	return resolved, nil
}

// IsURL reports whether path carries a scheme such as file:// or mem://.
func IsURL(path string) bool {
	return strings.Contains(path, "://")
}

// Pin returns the interface pinned for member. Keys are compared
// case-insensitively because viper lower-cases map keys read from files.
func (c Config) Pin(member string) (string, bool) {
	return LookupPin(c.Pins, member)
}

// LookupPin returns the interface pinned for member. An exact key wins;
// otherwise keys are compared case-insensitively and the lexically smallest
// matching key is used, so the result never depends on map order.
func LookupPin(pins map[string]string, member string) (string, bool) {
	if iface, ok := pins[member]; ok {
		return iface, true
	}
	var key string
	found := false
	for k := range pins {
		if strings.EqualFold(k, member) && (!found || k < key) {
			key, found = k, true
		}
	}
	if !found {
		return "", false
	}
	return pins[key], true
}
