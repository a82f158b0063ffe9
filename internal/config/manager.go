// File: internal/config/manager.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config.json"
	ConfigDirName  = "bucketbridge"
	// Overrides the config file location
	ConfigPathEnv = "BUCKETBRIDGE_CONFIG"
	// Prefix of environment variables overriding individual keys, e.g. BUCKETBRIDGE_GCP_PROJECT
	EnvPrefix = "BUCKETBRIDGE"
)

// ConfigManager persists settings to a JSON file and layers environment overrides on top when reading.
// Only values set through the manager are written back; environment values never reach the file.
type ConfigManager struct {
	path string
	file *viper.Viper
}

func NewConfigManager() (*ConfigManager, error) {
	path, err := defaultConfigPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerWithPath(path)
}

func NewConfigManagerWithPath(path string) (*ConfigManager, error) {
	file, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	return &ConfigManager{path: path, file: file}, nil
}

func defaultConfigPath() (string, error) {
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", ConfigDirName, ConfigFileName), nil
}

func newFileViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	// The file may hold secret keys
	v.SetConfigPermissions(0o600)
	return v
}

func readConfigFile(path string) (*viper.Viper, error) {
	v := newFileViper(path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return v, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if info.Size() == 0 {
		return v, nil
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return v, nil
}

func (m *ConfigManager) Path() string {
	return m.path
}

// Builds a view of the file contents with environment overrides applied
func (m *ConfigManager) effective() (*viper.Viper, error) {
	v := viper.New()
	if err := v.MergeConfigMap(m.file.AllSettings()); err != nil {
		return nil, fmt.Errorf("error merging config: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, spec := range knownKeys {
		if err := v.BindEnv(spec.Name); err != nil {
			return nil, fmt.Errorf("error binding environment for %s: %w", spec.Name, err)
		}
	}
	return v, nil
}

// LoadConfig decodes the effective settings into a Config
func (m *ConfigManager) LoadConfig() (*Config, error) {
	v, err := m.effective()
	if err != nil {
		return nil, err
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	return &cfg, nil
}

func (m *ConfigManager) SetValue(key, value string) error {
	key = strings.ToLower(key)
	spec, err := lookupKey(key)
	if err != nil {
		return err
	}

	parsed, err := spec.parse(value)
	if err != nil {
		return err
	}

	m.file.Set(key, parsed)
	return m.save()
}

// GetValue returns the effective value of a key, including environment overrides
func (m *ConfigManager) GetValue(key string) (string, bool) {
	key = strings.ToLower(key)
	v, err := m.effective()
	if err != nil || !v.IsSet(key) {
		return "", false
	}
	return fmt.Sprint(v.Get(key)), true
}

// DeleteValue removes a key from the config file, reporting whether it was present
func (m *ConfigManager) DeleteValue(key string) (bool, error) {
	key = strings.ToLower(key)
	if _, err := lookupKey(key); err != nil {
		return false, err
	}

	section, field, _ := strings.Cut(key, ".")
	settings := m.file.AllSettings()
	block, ok := settings[section].(map[string]any)
	if !ok {
		return false, nil
	}
	if _, ok := block[field]; !ok {
		return false, nil
	}

	delete(block, field)
	if len(block) == 0 {
		delete(settings, section)
	}

	// Viper cannot unset a key, so the file contents are rebuilt without it
	file := newFileViper(m.path)
	if err := file.MergeConfigMap(settings); err != nil {
		return false, fmt.Errorf("error rebuilding config: %w", err)
	}
	m.file = file

	if err := m.save(); err != nil {
		return false, err
	}
	return true, nil
}

// GetAllSettings returns the effective settings as a nested map
func (m *ConfigManager) GetAllSettings() map[string]any {
	v, err := m.effective()
	if err != nil {
		return m.file.AllSettings()
	}
	return v.AllSettings()
}

func (m *ConfigManager) save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}
	if err := m.file.WriteConfigAs(m.path); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
