// Package config loads the workbench's configuration surface and exposes
// the process-wide style/colour globals the renderer reads from.
package config

import (
	"errors"
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// ConfigDir is the resolved configuration directory (XDG-aware).
var ConfigDir string

// StartupPrefix is one entry of assistant.startup_prefixes.
type StartupPrefix struct {
	Name        string `yaml:"name"`
	Prefix      string `yaml:"prefix"`
	Description string `yaml:"description"`
}

// Config mirrors the enumerated configuration surface from spec §6.
// Unknown keys in the backing YAML document are ignored by construction:
// yaml.v3 silently drops fields with no matching tag.
type Config struct {
	Terminal struct {
		ShellPath string   `yaml:"shell_path"`
		ShellArgs []string `yaml:"shell_args"`
	} `yaml:"terminal"`

	Layout struct {
		FileBrowserWidthPercent int `yaml:"file_browser_width_percent"`
		PreviewWidthPercent     int `yaml:"preview_width_percent"`
		RightPanelWidthPercent  int `yaml:"right_panel_width_percent"`
		AssistantHeightPercent  int `yaml:"assistant_height_percent"`
	} `yaml:"layout"`

	PTY struct {
		CopyLinesCount      int `yaml:"copy_lines_count"`
		ScrollbackCapacity  int `yaml:"scrollback_capacity"`
	} `yaml:"pty"`

	Assistant struct {
		StartupPrefixes []StartupPrefix `yaml:"startup_prefixes"`
	} `yaml:"assistant"`
}

// Default returns the configuration defaults named throughout spec §6.
func Default() *Config {
	c := &Config{}
	c.Layout.FileBrowserWidthPercent = 25
	c.Layout.PreviewWidthPercent = 35
	c.Layout.RightPanelWidthPercent = 40
	c.Layout.AssistantHeightPercent = 60
	c.PTY.CopyLinesCount = 50
	c.PTY.ScrollbackCapacity = 1000
	return c
}

// InitConfigDir resolves ConfigDir the way the teacher's micro fork does:
// an explicit override, then WORKBENCH_CONFIG_HOME, then XDG_CONFIG_HOME,
// then ~/.config. An explicit override must already exist; the other
// locations are created if absent.
func InitConfigDir(flagConfigDir string) error {
	if flagConfigDir != "" {
		if _, err := os.Stat(flagConfigDir); os.IsNotExist(err) {
			return errors.New("config dir does not exist: " + flagConfigDir)
		}
		ConfigDir = flagConfigDir
		return nil
	}

	configHome := os.Getenv("WORKBENCH_CONFIG_HOME")
	if configHome == "" {
		xdgHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgHome == "" {
			home, err := homedir.Dir()
			if err != nil {
				return errors.New("cannot find home directory: " + err.Error())
			}
			xdgHome = filepath.Join(home, ".config")
		}
		configHome = filepath.Join(xdgHome, "claude-workbench")
	}
	ConfigDir = configHome

	if err := os.MkdirAll(ConfigDir, 0o755); err != nil {
		return errors.New("cannot create config directory: " + err.Error())
	}
	return nil
}

// Load reads config.yaml from ConfigDir, falling back to defaults when the
// file is absent. Clamping of layout percentages happens at the call site
// (internal/layout), not here, since clamping is a layout-engine invariant.
func Load() (*Config, error) {
	cfg := Default()

	path := filepath.Join(ConfigDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	// Unmarshal into a copy of the defaults so unset keys keep their
	// default value instead of being zeroed out by the decoder.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
