package config

import (
	"strings"

	"github.com/phyten/jcomment/internal/engine"
	"github.com/phyten/jcomment/internal/rules"
)

// EngineConfig は 1 つの設定レイヤー（ファイル・環境変数・フラグ）です。nil は未指定を表します。
type EngineConfig struct {
	Detect         *string   `yaml:"detect" toml:"detect" json:"detect"`
	Paths          *[]string `yaml:"path" toml:"path" json:"path"`
	Excludes       *[]string `yaml:"exclude" toml:"exclude" json:"exclude"`
	PathRegex      *[]string `yaml:"path_regex" toml:"path_regex" json:"path_regex"`
	ExcludeTypical *bool     `yaml:"exclude_typical" toml:"exclude_typical" json:"exclude_typical"`
	DetectLangs    *[]string `yaml:"lang" toml:"lang" json:"lang"`
	Jobs           *int      `yaml:"jobs" toml:"jobs" json:"jobs"`
	Repo           *string   `yaml:"repo" toml:"repo" json:"repo"`
	MaxFileBytes   *int      `yaml:"max_file_bytes" toml:"max_file_bytes" json:"max_file_bytes"`
	NoGit          *bool     `yaml:"no_git" toml:"no_git" json:"no_git"`
	ExcerptWidth   *int      `yaml:"excerpt_width" toml:"excerpt_width" json:"excerpt_width"`
	Output         *string   `yaml:"output" toml:"output" json:"output"`
	Color          *string   `yaml:"color" toml:"color" json:"color"`
	FailOn         *string   `yaml:"fail_on" toml:"fail_on" json:"fail_on"`
	Progress       *string   `yaml:"progress" toml:"progress" json:"progress"`
}

// RulesConfig は rules セクションです。
type RulesConfig struct {
	EnableAll *bool              `yaml:"enable_all" toml:"enable_all" json:"enable_all"`
	Enable    *[]string          `yaml:"enable" toml:"enable" json:"enable"`
	Disable   *[]string          `yaml:"disable" toml:"disable" json:"disable"`
	Severity  *map[string]string `yaml:"severity" toml:"severity" json:"severity"`
}

type Config struct {
	Engine EngineConfig `yaml:"engine" toml:"engine" json:"engine"`
	Rules  RulesConfig  `yaml:"rules" toml:"rules" json:"rules"`
}

type EngineSettings struct {
	Detect         string
	Paths          []string
	Excludes       []string
	PathRegex      []string
	ExcludeTypical bool
	DetectLangs    []string
	Jobs           int
	Repo           string
	MaxFileBytes   int
	NoGit          bool
	ExcerptWidth   int
	Output         string
	Color          string
	FailOn         string
	Progress       string
}

type RuleSettings struct {
	EnableAll bool
	Enable    []string
	Disable   []string
	Severity  map[string]string
}

func EngineSettingsFromOptions(opts engine.Options) EngineSettings {
	return EngineSettings{
		Detect:         opts.DetectMode,
		Paths:          cloneStrings(opts.Paths),
		Excludes:       cloneStrings(opts.Excludes),
		PathRegex:      cloneStrings(opts.PathRegex),
		ExcludeTypical: opts.ExcludeTypical,
		DetectLangs:    cloneStrings(opts.DetectLangs),
		Jobs:           opts.Jobs,
		Repo:           opts.RepoDir,
		MaxFileBytes:   opts.MaxFileBytes,
		NoGit:          opts.NoGit,
		ExcerptWidth:   opts.ExcerptWidth,
		Output:         "table",
		Color:          "auto",
		FailOn:         string(rules.SeverityWarning),
		Progress:       "auto",
	}
}

func (s EngineSettings) ApplyToOptions(opts *engine.Options) {
	if opts == nil {
		return
	}
	opts.DetectMode = s.Detect
	opts.Paths = cloneStrings(s.Paths)
	opts.Excludes = cloneStrings(s.Excludes)
	opts.PathRegex = cloneStrings(s.PathRegex)
	opts.ExcludeTypical = s.ExcludeTypical
	opts.DetectLangs = cloneStrings(s.DetectLangs)
	opts.Jobs = s.Jobs
	if trimmed := strings.TrimSpace(s.Repo); trimmed != "" {
		opts.RepoDir = trimmed
	}
	opts.MaxFileBytes = s.MaxFileBytes
	opts.NoGit = s.NoGit
	opts.ExcerptWidth = s.ExcerptWidth
}

// ToRules は rules.Settings に変換します。severity のキーはルール名でも id でも構いません。
func (s RuleSettings) ToRules() (rules.Settings, error) {
	sev, err := rules.NormalizeSeverities(s.Severity)
	if err != nil {
		return rules.Settings{}, err
	}
	return rules.Settings{
		EnableAll: s.EnableAll,
		Enable:    cloneStrings(s.Enable),
		Disable:   cloneStrings(s.Disable),
		Severity:  sev,
	}, nil
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
