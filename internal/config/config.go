package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"faultdemo/internal/logger"
	"faultdemo/internal/scenario"

	"gopkg.in/yaml.v3"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Run    RunConfig    `yaml:"run" json:"run"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Server ServerConfig `yaml:"server" json:"server"`
}

// RunConfig は実行設定
type RunConfig struct {
	Preset    string   `yaml:"preset" json:"preset"`
	Scenarios []string `yaml:"scenarios" json:"scenarios"`
	Args      []string `yaml:"args" json:"args"`
	Report    bool     `yaml:"report" json:"report"`
}

// LogConfig はログ設定
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// ServerConfig はAPIサーバー設定
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// ToRunConfig はFileConfigをscenario.Configに変換する
//
// scenarios が指定されていればプリセットのシナリオ一覧を置き換える。
func (f *FileConfig) ToRunConfig() (scenario.Config, error) {
	rc := f.Run

	config := scenario.DefaultConfig()
	if rc.Preset != "" {
		preset, ok := scenario.GetPreset(rc.Preset)
		if !ok {
			return config, fmt.Errorf("unknown preset: %s", rc.Preset)
		}
		config = preset
	}

	if len(rc.Scenarios) > 0 {
		config.Scenarios = append([]string(nil), rc.Scenarios...)
		config.Name = "custom"
		config.Description = "Scenarios selected in config file"
	}
	config.Args = append([]string(nil), rc.Args...)

	return config, nil
}

// LogLevel はログレベルを返す。未指定なら fallback を返す
func (f *FileConfig) LogLevel(fallback logger.Level) (logger.Level, error) {
	if f.Log.Level == "" {
		return fallback, nil
	}
	return logger.ParseLevel(f.Log.Level)
}

// Validate は設定を検証する
func (f *FileConfig) Validate() error {
	rc := f.Run

	if rc.Preset != "" {
		if _, ok := scenario.GetPreset(rc.Preset); !ok {
			return fmt.Errorf("run.preset must be one of %v", scenario.ListPresets())
		}
	}

	seen := make(map[string]bool)
	for _, name := range rc.Scenarios {
		if _, ok := scenario.Lookup(name); !ok {
			return fmt.Errorf("run.scenarios: unknown scenario %s", name)
		}
		if seen[name] {
			return fmt.Errorf("run.scenarios: duplicate scenario %s", name)
		}
		seen[name] = true
	}

	if f.Log.Level != "" {
		if _, err := logger.ParseLevel(f.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	return nil
}
