// Package config loads the JSON settings shared by the example programs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds puppet paths, viewer settings and parameter names.
type Config struct {
	// Paths
	BaseDir  string `json:"base_dir"`
	Puppet   string `json:"puppet"`
	Audio    string `json:"audio"`
	ThumbDir string `json:"thumb_dir"`

	// Viewer settings
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
	Debug  bool    `json:"debug"`

	// Parameter names
	LookParam  string `json:"look_param"`
	MouthParam string `json:"mouth_param"`
	TweenParam string `json:"tween_param"`

	// Thumbnail settings
	ThumbSize int `json:"thumb_size"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Puppet     string
	Audio      string
	ThumbDir   string
	ThumbSize  int
	Scale      float64
	Debug      bool
	LookParam  string
	MouthParam string
	TweenParam string
}

// Resolve applies flags and fills in defaults. Relative paths are resolved
// against BaseDir.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Puppet != "" {
		c.Puppet = flags.Puppet
	}
	if flags.Audio != "" {
		c.Audio = flags.Audio
	}
	if flags.ThumbDir != "" {
		c.ThumbDir = flags.ThumbDir
	}
	if flags.ThumbSize > 0 {
		c.ThumbSize = flags.ThumbSize
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Debug {
		c.Debug = true
	}
	if flags.LookParam != "" {
		c.LookParam = flags.LookParam
	}
	if flags.MouthParam != "" {
		c.MouthParam = flags.MouthParam
	}
	if flags.TweenParam != "" {
		c.TweenParam = flags.TweenParam
	}

	if c.BaseDir != "" {
		c.Puppet = resolvePath(c.BaseDir, c.Puppet)
		c.Audio = resolvePath(c.BaseDir, c.Audio)
		c.ThumbDir = resolvePath(c.BaseDir, c.ThumbDir)
	}

	if c.Width <= 0 {
		c.Width = 800
	}
	if c.Height <= 0 {
		c.Height = 800
	}
	if c.Scale <= 0 {
		c.Scale = 0.25
	}
	if c.ThumbSize <= 0 {
		c.ThumbSize = 256
	}
	if c.LookParam == "" {
		c.LookParam = "Head:: Yaw-Pitch"
	}
	if c.MouthParam == "" {
		c.MouthParam = "Mouth:: Open"
	}
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
