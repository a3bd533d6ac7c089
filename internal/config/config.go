// internal/config/config.go
//
// This package handles configuration and the .peerreview directory structure.
// The directory is created next to wherever the reviewer launches the tool.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/peerreview/internal/rubric"
	"github.com/kingrea/peerreview/internal/submission"
)

const (
	// StateDirName is the name of the directory we create in the working directory
	StateDirName = ".peerreview"

	// DefaultComment is sent for criteria left without a comment.
	DefaultComment = "無評語"

	// Collector defaults live with the gateway that uses them.
	DefaultEndpoint        = submission.DefaultEndpoint
	DefaultTimeout         = submission.DefaultTimeout
	DefaultReviewerField   = submission.DefaultReviewerField
	DefaultPresenterField  = submission.DefaultPresenterField
	DefaultTotalScoreField = submission.DefaultTotalScoreField
	DefaultDetailsField    = submission.DefaultDetailsField
)

const defaultProjectConfigYAML = `# peerreview configuration
version: 1

# Rubric to score against. Set path to use a custom YAML rubric instead of a builtin.
rubric:
  builtin: research-methods
  # path: rubrics/custom.yaml

review:
  # Keep the reviewer's own name when starting the next review.
  keep_reviewer_on_reset: true
  default_comment: 無評語

# Form collector receiving submissions. Field ids come from the form's prefill link.
collector:
  endpoint: ` + DefaultEndpoint + `
  timeout: 15s
  fields:
    reviewer: ` + DefaultReviewerField + `
    presenter: ` + DefaultPresenterField + `
    total_score: ` + DefaultTotalScoreField + `
    details: ` + DefaultDetailsField + `

# Local record of every submission attempt.
journal:
  enabled: true
`

// RubricConfig selects the scoring rubric.
type RubricConfig struct {
	Builtin string `yaml:"builtin"`
	Path    string `yaml:"path,omitempty"`
}

// ReviewConfig holds per-review behaviour.
type ReviewConfig struct {
	KeepReviewerOnReset *bool  `yaml:"keep_reviewer_on_reset,omitempty"`
	DefaultComment      string `yaml:"default_comment,omitempty"`
}

// FieldsConfig maps payload roles to the collector's field identifiers.
type FieldsConfig struct {
	Reviewer   string `yaml:"reviewer"`
	Presenter  string `yaml:"presenter"`
	TotalScore string `yaml:"total_score"`
	Details    string `yaml:"details"`
}

// CollectorConfig describes the external form endpoint.
type CollectorConfig struct {
	Endpoint string       `yaml:"endpoint"`
	Timeout  string       `yaml:"timeout,omitempty"`
	Fields   FieldsConfig `yaml:"fields"`
}

// JournalConfig toggles the local submission journal.
type JournalConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// ProjectConfig models .peerreview/config.yaml.
type ProjectConfig struct {
	Version   int             `yaml:"version"`
	Rubric    RubricConfig    `yaml:"rubric"`
	Review    ReviewConfig    `yaml:"review"`
	Collector CollectorConfig `yaml:"collector"`
	Journal   JournalConfig   `yaml:"journal"`
}

// envOverrides are read after the YAML file so operators can redirect a run
// without editing it.
type envOverrides struct {
	CollectorURL     string `env:"PEERREVIEW_COLLECTOR_URL"`
	CollectorTimeout string `env:"PEERREVIEW_COLLECTOR_TIMEOUT"`
	RubricFile       string `env:"PEERREVIEW_RUBRIC_FILE"`
	KeepReviewer     *bool  `env:"PEERREVIEW_KEEP_REVIEWER"`
	JournalEnabled   *bool  `env:"PEERREVIEW_JOURNAL_ENABLED"`
}

// Config holds the runtime configuration.
type Config struct {
	// ProjectDir is the directory the tool was launched from
	ProjectDir string

	// StateDir is ProjectDir/.peerreview
	StateDir string

	Project ProjectConfig
}

// InitDir creates the .peerreview directory structure in the given project directory.
//
// Structure created:
// .peerreview/
// ├── config.yaml
// ├── journal.db   <- created lazily by the journal
// └── logs/
func InitDir(projectDir string) error {
	stateDir := filepath.Join(projectDir, StateDirName)
	if err := os.MkdirAll(filepath.Join(stateDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", stateDir, err)
	}
	return ensureProjectConfig(filepath.Join(stateDir, "config.yaml"))
}

// NewConfig loads .peerreview/config.yaml (if present) and applies environment overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir: projectDir,
		StateDir:   filepath.Join(projectDir, StateDirName),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.Project.normalize(projectDir)
	if err := cfg.Project.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.StateDir, "config.yaml")
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, "logs")
}

// LogPath returns the logbook file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "peerreview.log")
}

// JournalPath returns the SQLite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.StateDir, "journal.db")
}

// JournalEnabled reports whether submission attempts are recorded locally.
func (c *Config) JournalEnabled() bool {
	return boolOr(c.Project.Journal.Enabled, true)
}

// KeepReviewerOnReset reports whether the reviewer name survives a reset.
func (c *Config) KeepReviewerOnReset() bool {
	return boolOr(c.Project.Review.KeepReviewerOnReset, true)
}

// DefaultComment returns the placeholder for missing comments.
func (c *Config) DefaultComment() string {
	return c.Project.Review.DefaultComment
}

// CollectorTimeout returns the parsed submission timeout.
func (c *Config) CollectorTimeout() time.Duration {
	d, err := time.ParseDuration(c.Project.Collector.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// CollectorSettings returns the gateway settings for the configured collector.
func (c *Config) CollectorSettings() submission.Settings {
	raw := c.Project.Collector
	return submission.NewSettings(raw.Endpoint, c.CollectorTimeout(), submission.Fields{
		Reviewer:   raw.Fields.Reviewer,
		Presenter:  raw.Fields.Presenter,
		TotalScore: raw.Fields.TotalScore,
		Details:    raw.Fields.Details,
	})
}

// Catalog resolves the configured rubric.
func (c *Config) Catalog() (rubric.Catalog, error) {
	return rubric.Resolve(c.Project.Rubric.Builtin, c.Project.Rubric.Path)
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	parsed.applyDefaults()
	c.Project = parsed
	return nil
}

func (c *Config) applyEnvOverrides() error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	if v := strings.TrimSpace(ov.CollectorURL); v != "" {
		c.Project.Collector.Endpoint = v
	}
	if v := strings.TrimSpace(ov.CollectorTimeout); v != "" {
		c.Project.Collector.Timeout = v
	}
	if v := strings.TrimSpace(ov.RubricFile); v != "" {
		c.Project.Rubric.Path = v
	}
	if ov.KeepReviewer != nil {
		c.Project.Review.KeepReviewerOnReset = ov.KeepReviewer
	}
	if ov.JournalEnabled != nil {
		c.Project.Journal.Enabled = ov.JournalEnabled
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Rubric:  RubricConfig{Builtin: rubric.DefaultBuiltin},
		Review:  ReviewConfig{DefaultComment: DefaultComment},
		Collector: CollectorConfig{
			Endpoint: DefaultEndpoint,
			Timeout:  DefaultTimeout.String(),
			Fields: FieldsConfig{
				Reviewer:   DefaultReviewerField,
				Presenter:  DefaultPresenterField,
				TotalScore: DefaultTotalScoreField,
				Details:    DefaultDetailsField,
			},
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	defaults := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = defaults.Version
	}
	if strings.TrimSpace(pc.Collector.Timeout) == "" {
		pc.Collector.Timeout = defaults.Collector.Timeout
	}
	if pc.Review.DefaultComment == "" {
		pc.Review.DefaultComment = defaults.Review.DefaultComment
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Rubric.Builtin = strings.TrimSpace(pc.Rubric.Builtin)
	if pc.Rubric.Builtin == "" {
		pc.Rubric.Builtin = rubric.DefaultBuiltin
	}
	pc.Rubric.Path = resolvePath(base, pc.Rubric.Path)
	pc.Collector.Endpoint = strings.TrimSpace(pc.Collector.Endpoint)
	pc.Collector.Timeout = strings.TrimSpace(pc.Collector.Timeout)
	f := &pc.Collector.Fields
	f.Reviewer = strings.TrimSpace(f.Reviewer)
	f.Presenter = strings.TrimSpace(f.Presenter)
	f.TotalScore = strings.TrimSpace(f.TotalScore)
	f.Details = strings.TrimSpace(f.Details)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if err := validateEndpoint(pc.Collector.Endpoint); err != nil {
		return fmt.Errorf("collector.endpoint: %w", err)
	}
	if d, err := time.ParseDuration(pc.Collector.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("collector.timeout: %q is not a positive duration", pc.Collector.Timeout)
	}
	if err := pc.Collector.Fields.validate(); err != nil {
		return fmt.Errorf("collector.fields: %w", err)
	}
	return nil
}

func (f FieldsConfig) validate() error {
	named := []struct{ key, value string }{
		{"reviewer", f.Reviewer},
		{"presenter", f.Presenter},
		{"total_score", f.TotalScore},
		{"details", f.Details},
	}
	seen := map[string]string{}
	for _, n := range named {
		if n.value == "" {
			return fmt.Errorf("%s is required", n.key)
		}
		if other, dup := seen[n.value]; dup {
			return fmt.Errorf("%s and %s share field id %q", other, n.key, n.value)
		}
		seen[n.value] = n.key
	}
	return nil
}

func validateEndpoint(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
