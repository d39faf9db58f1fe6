package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// FileName is the settings file name searched in the vault root,
// with any extension viper understands (yaml, yml, json, toml)
const FileName = "taskcore"

// EnvPrefix prefixes environment overrides, e.g. TASKCORE_TIMEZONE
const EnvPrefix = "TASKCORE"

// envKeys are the settings that may be overridden from the environment
var envKeys = []string{"timezone", "week_start", "default_status", "task_tag", "tasks_folder", "log_level"}

// Loader reads settings through an afero filesystem
type Loader struct {
	fs   afero.Fs
	sink diag.Sink
}

// NewLoader creates a loader; settings warnings go to sink
func NewLoader(fs afero.Fs, sink diag.Sink) *Loader {
	return &Loader{fs: fs, sink: diag.OrDiscard(sink)}
}

// Load reads configPath, or the settings file in vaultDir when configPath
// is empty. A missing settings file in vaultDir means defaults; a missing
// explicit configPath is an error.
// Priority: environment > settings file > defaults
func (l *Loader) Load(vaultDir, configPath string) (*Settings, error) {
	v := viper.New()
	v.SetFs(l.fs)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(vaultDir)
		v.SetConfigName(FileName)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	source := "default"
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
	} else {
		source = v.ConfigFileUsed()
	}

	raw := &RawSettings{}
	if err := v.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	return buildSettings(raw, source, l.sink)
}
