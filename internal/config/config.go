// Package config provides configuration management for docsmith sites
// using Viper for flexible configuration loading from files, environment
// variables, and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the DOCSMITH_ prefix, and validation. It manages site
// metadata, homepage content (hero and feature grid), content scanning
// paths, build output settings, theme options, and development-server
// behavior like hot reload.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/viper"

	"github.com/docsmith/docsmith/internal/types"
)

type Config struct {
	Site        SiteConfig        `yaml:"site" mapstructure:"site"`
	Homepage    HomepageConfig    `yaml:"homepage" mapstructure:"homepage"`
	Content     ContentConfig     `yaml:"content" mapstructure:"content"`
	Build       BuildConfig       `yaml:"build" mapstructure:"build"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Theme       ThemeConfig       `yaml:"theme" mapstructure:"theme"`
	Development DevelopmentConfig `yaml:"development" mapstructure:"development"`
}

// SiteConfig holds site-wide metadata used across all rendered pages.
type SiteConfig struct {
	Title    string `yaml:"title" mapstructure:"title"`
	Tagline  string `yaml:"tagline" mapstructure:"tagline"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Language string `yaml:"language" mapstructure:"language"`
}

// HomepageConfig describes the generated homepage: a hero banner and the
// feature grid below it. The feature list is fixed at build time; its
// order is display order.
type HomepageConfig struct {
	Hero     types.Hero          `yaml:"hero" mapstructure:"hero"`
	Features []types.FeatureItem `yaml:"features" mapstructure:"features"`
}

// ContentConfig controls page discovery.
type ContentConfig struct {
	Dir             string   `yaml:"dir" mapstructure:"dir"`
	StaticDir       string   `yaml:"static_dir" mapstructure:"static_dir"`
	ExcludePatterns []string `yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
	IncludeDrafts   bool     `yaml:"include_drafts" mapstructure:"include_drafts"`
}

// BuildConfig controls static output generation.
type BuildConfig struct {
	OutputDir       string `yaml:"output_dir" mapstructure:"output_dir"`
	MinifyHTML      bool   `yaml:"minify_html" mapstructure:"minify_html"`
	GenerateSitemap bool   `yaml:"generate_sitemap" mapstructure:"generate_sitemap"`
	GenerateRobots  bool   `yaml:"generate_robots" mapstructure:"generate_robots"`
}

// ServerConfig controls the development server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	Host           string   `yaml:"host" mapstructure:"host"`
	Open           bool     `yaml:"open" mapstructure:"open"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// ThemeConfig holds presentation options.
type ThemeConfig struct {
	NavbarLinks    []types.NavLink `yaml:"navbar_links" mapstructure:"navbar_links"`
	FooterText     string          `yaml:"footer_text" mapstructure:"footer_text"`
	HighlightStyle string          `yaml:"highlight_style" mapstructure:"highlight_style"`
	CustomCSS      string          `yaml:"custom_css" mapstructure:"custom_css"`
}

// DevelopmentConfig holds development-only options.
type DevelopmentConfig struct {
	HotReload bool `yaml:"hot_reload" mapstructure:"hot_reload"`
}

// Load unmarshals the current viper state into a Config, applies
// defaults for unset values, and validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)

	// Viper's automatic-env does not populate nested bools that were set
	// only through the environment, so read them back explicitly.
	if viper.IsSet("development.hot_reload") {
		config.Development.HotReload = viper.GetBool("development.hot_reload")
	}
	if viper.IsSet("content.include_drafts") {
		config.Content.IncludeDrafts = viper.GetBool("content.include_drafts")
	}
	if viper.IsSet("content.exclude_patterns") && len(config.Content.ExcludePatterns) == 0 {
		config.Content.ExcludePatterns = viper.GetStringSlice("content.exclude_patterns")
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Site.Title == "" {
		config.Site.Title = "Documentation"
	}
	if config.Site.Language == "" {
		config.Site.Language = "en"
	}
	if config.Homepage.Hero.Title == "" {
		config.Homepage.Hero.Title = config.Site.Title
	}
	if config.Homepage.Hero.Tagline == "" {
		config.Homepage.Hero.Tagline = config.Site.Tagline
	}

	if config.Content.Dir == "" {
		config.Content.Dir = "docs"
	}
	if config.Content.StaticDir == "" {
		config.Content.StaticDir = "static"
	}
	if len(config.Content.ExcludePatterns) == 0 {
		config.Content.ExcludePatterns = []string{"*.bak", "README.md"}
	}

	if config.Build.OutputDir == "" {
		config.Build.OutputDir = "build"
	}
	if !viper.IsSet("build.generate_sitemap") {
		config.Build.GenerateSitemap = true
	}
	if !viper.IsSet("build.generate_robots") {
		config.Build.GenerateRobots = true
	}

	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	if config.Theme.HighlightStyle == "" {
		config.Theme.HighlightStyle = "github"
	}

	if !viper.IsSet("development.hot_reload") {
		config.Development.HotReload = true
	}
}

// Validate checks configuration values for correctness and safety.
func Validate(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validateContentConfig(&config.Content); err != nil {
		return fmt.Errorf("content config: %w", err)
	}
	if err := validateBuildConfig(&config.Build); err != nil {
		return fmt.Errorf("build config: %w", err)
	}
	if err := validateThemeConfig(&config.Theme); err != nil {
		return fmt.Errorf("theme config: %w", err)
	}
	if err := validateHomepageConfig(&config.Homepage); err != nil {
		return fmt.Errorf("homepage config: %w", err)
	}
	return nil
}

func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if config.Host != "" {
		dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\"}
		for _, char := range dangerousChars {
			if strings.Contains(config.Host, char) {
				return fmt.Errorf("host contains dangerous character: %s", char)
			}
		}
	}

	return nil
}

func validateContentConfig(config *ContentConfig) error {
	if err := validatePath(config.Dir); err != nil {
		return fmt.Errorf("invalid content dir %q: %w", config.Dir, err)
	}
	if err := validatePath(config.StaticDir); err != nil {
		return fmt.Errorf("invalid static dir %q: %w", config.StaticDir, err)
	}
	return nil
}

func validateBuildConfig(config *BuildConfig) error {
	if err := validatePath(config.OutputDir); err != nil {
		return fmt.Errorf("invalid output dir %q: %w", config.OutputDir, err)
	}
	return nil
}

func validateThemeConfig(config *ThemeConfig) error {
	// chroma registers styles by name; an unknown style would silently
	// fall back at render time, so reject it up front instead.
	if config.HighlightStyle != "" && styles.Get(config.HighlightStyle) == styles.Fallback {
		return fmt.Errorf("unknown highlight style %q", config.HighlightStyle)
	}
	if config.CustomCSS != "" {
		if err := validatePath(config.CustomCSS); err != nil {
			return fmt.Errorf("invalid custom_css path %q: %w", config.CustomCSS, err)
		}
	}
	return nil
}

func validateHomepageConfig(config *HomepageConfig) error {
	for i, feature := range config.Features {
		if feature.Title == "" {
			return fmt.Errorf("feature %d: title is required", i)
		}
		if feature.Icon == "" {
			return fmt.Errorf("feature %q: icon is required", feature.Title)
		}
		if err := validatePath(feature.Icon); err != nil {
			return fmt.Errorf("feature %q: invalid icon path: %w", feature.Title, err)
		}
	}
	return nil
}

// validatePath validates a config-supplied relative path for safety.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}
	if filepath.IsAbs(cleanPath) {
		return fmt.Errorf("path must be relative: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
