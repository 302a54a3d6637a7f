// Package config provides deployment configuration management.
//
// This package reads the optional .dbcli/deploy.yaml file from the
// working directory, falling back to the user-level copy under the XDG
// config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// ProjectDir is the per-project configuration directory.
	ProjectDir = ".dbcli"

	// FileName is the configuration file name, both per-project and
	// under the user config directory.
	FileName = "deploy.yaml"
)

// DeployConfig represents the deploy.yaml file. Every field is optional;
// command-line flags override the values here.
type DeployConfig struct {
	// Candidates are extra skills source directories, searched after the
	// built-in locations.
	Candidates []string `yaml:"candidates,omitempty"`

	// RuleFiles replaces the default host file list for rule injection.
	RuleFiles []string `yaml:"rule_files,omitempty"`

	// ClaudeDir overrides the detected Claude configuration directory.
	ClaudeDir string `yaml:"claude_dir,omitempty"`

	// PackageOutDir is the default output directory for upload archives.
	PackageOutDir string `yaml:"package_out_dir,omitempty"`

	// Codex contains Codex target settings.
	Codex CodexConfig `yaml:"codex,omitempty"`

	// path is where the config was loaded from; empty for defaults.
	path string
}

// CodexConfig contains Codex target settings.
type CodexConfig struct {
	// GlobalOnly restricts Codex deployment to the user profile.
	GlobalOnly bool `yaml:"global_only,omitempty"`
}

// Path returns the file the configuration was loaded from, or "" when
// no file was found.
func (c *DeployConfig) Path() string {
	return c.path
}

// ProjectPath returns the per-project config path for dir.
func ProjectPath(dir string) string {
	return filepath.Join(dir, ProjectDir, FileName)
}

// UserPath returns the user-level config path.
func UserPath() string {
	return filepath.Join(xdg.ConfigHome, "dbcli", FileName)
}

// LoadDeployConfig reads and parses a deploy.yaml file.
//
// Parameters:
//   - path: Path to the deploy.yaml file
//
// Returns:
//   - *DeployConfig: The parsed configuration
//   - error: Any error that occurred
func LoadDeployConfig(path string) (*DeployConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg DeployConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.path = path
	return &cfg, nil
}

// Discover loads the first config file that exists among paths. A
// missing file is not an error; an unreadable or malformed one is.
// With no file found the zero configuration is returned.
func Discover(paths ...string) (*DeployConfig, error) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		cfg, err := LoadDeployConfig(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return &DeployConfig{}, nil
}

// Load discovers the configuration for the working directory cwd:
// <cwd>/.dbcli/deploy.yaml, then the user-level file.
func Load(cwd string) (*DeployConfig, error) {
	return Discover(ProjectPath(cwd), UserPath())
}

// WriteDeployConfig writes cfg to path, creating parent directories.
func WriteDeployConfig(path string, cfg *DeployConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := "# DbCli deploy configuration\n\n"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(header+string(data)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
