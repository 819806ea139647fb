// Package opts は CLI・設定ファイル・環境変数で共通の既定値と検証を提供します。
package opts

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/phyten/jcomment/internal/detect"
	"github.com/phyten/jcomment/internal/engine"
	"github.com/phyten/jcomment/internal/extract"
	"github.com/phyten/jcomment/internal/rules"
)

const (
	maxJobs = 64
)

var (
	trueLiterals  = map[string]struct{}{"1": {}, "true": {}, "yes": {}, "on": {}}
	falseLiterals = map[string]struct{}{"0": {}, "false": {}, "no": {}, "off": {}}
)

// OutputFormats は --output に指定できる形式です。
var OutputFormats = []string{"table", "tsv", "json", "ndjson", "csv", "markdown", "sarif"}

// Defaults returns the baseline engine options.
func Defaults(repoDir string) engine.Options {
	jobs := runtime.NumCPU()
	if jobs < 1 {
		jobs = 1
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}
	return engine.Options{
		DetectMode:     string(extract.ModeAuto),
		Jobs:           jobs,
		RepoDir:        repoDir,
		ExcludeTypical: true,
		ExcerptWidth:   60,
	}
}

// NormalizeAndValidate ensures the options are canonical and within the allowed ranges.
func NormalizeAndValidate(o *engine.Options) error {
	mode, err := extract.ParseMode(o.DetectMode)
	if err != nil {
		return fmt.Errorf("invalid --detect: %s", o.DetectMode)
	}
	o.DetectMode = string(mode)

	if o.Jobs < 1 || o.Jobs > maxJobs {
		return fmt.Errorf("jobs must be between 1 and %d", maxJobs)
	}
	if o.MaxFileBytes < 0 {
		return fmt.Errorf("max_file_bytes must be >= 0")
	}
	if o.ExcerptWidth < 0 {
		return fmt.Errorf("excerpt_width must be >= 0")
	}
	if strings.TrimSpace(o.RepoDir) == "" {
		o.RepoDir = "."
	}

	o.Paths = trimSlice(o.Paths)
	o.Excludes = trimSlice(o.Excludes)
	o.PathRegex = trimSlice(o.PathRegex)
	o.DetectLangs = trimSlice(o.DetectLangs)
	if len(o.DetectLangs) > 0 {
		o.DetectLangs = detect.CanonicalDetectLangs(o.DetectLangs)
		for _, lang := range o.DetectLangs {
			if !detect.KnownLanguage(lang) {
				return fmt.Errorf("unknown language in --lang: %s", lang)
			}
		}
	}
	o.Rules.Enable = trimSlice(o.Rules.Enable)
	o.Rules.Disable = trimSlice(o.Rules.Disable)
	if _, err := rules.Active(o.Rules); err != nil {
		return err
	}

	compiled, err := engine.CompilePathRegex(o.PathRegex)
	if err != nil {
		return fmt.Errorf("invalid --path-regex: %w", err)
	}
	o.PathRegexCompiled = compiled
	return nil
}

// ParseBool converts a string literal into a boolean, accepting multiple synonyms.
func ParseBool(raw, key string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := trueLiterals[v]; ok {
		return true, nil
	}
	if _, ok := falseLiterals[v]; ok {
		return false, nil
	}
	return false, fmt.Errorf("invalid value for %s: %q", key, raw)
}

// ParseIntInRange parses a string into an int and ensures it falls within [min, max].
// If max < min, the upper bound is ignored.
func ParseIntInRange(raw, key string, min, max int) (int, error) {
	n, err := parseInt(raw, key)
	if err != nil {
		return 0, err
	}
	if n < min {
		if max >= min {
			return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
		}
		return 0, fmt.Errorf("%s must be >= %d", key, min)
	}
	if max >= min && n > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return n, nil
}

// NormalizeOutput validates and lower-cases the output format value.
func NormalizeOutput(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return "table", nil
	case "md":
		return "markdown", nil
	case "jsonl":
		return "ndjson", nil
	}
	for _, f := range OutputFormats {
		if v == f {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid --output: %s", value)
}

// NormalizeFailOn は fail_on の値を検証します。"none" はどの診断でも失敗しないことを表します。
func NormalizeFailOn(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "warning", "warn":
		return string(rules.SeverityWarning), nil
	case "error", "info":
		return v, nil
	case "none", "never":
		return "none", nil
	}
	return "", fmt.Errorf("invalid --fail-on: %s", value)
}

// ParseSeverityPairs は "SAJ0002=error" 形式の指定を map にまとめます。後の指定が優先されます。
func ParseSeverityPairs(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, raw := range SplitMulti(values) {
		key, level, ok := strings.Cut(raw, "=")
		key, level = strings.TrimSpace(key), strings.TrimSpace(level)
		if !ok || key == "" || level == "" {
			return nil, fmt.Errorf("invalid --severity %q (want RULE=LEVEL)", raw)
		}
		out[key] = level
	}
	return out, nil
}

// SeverityPairs は ParseSeverityPairs の逆で、キー順に並べた "RULE=LEVEL" を返します。
func SeverityPairs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}

// SplitMulti turns repeated values (and comma-separated values) into a flat slice.
func SplitMulti(vals []string) []string {
	var out []string
	for _, raw := range vals {
		for _, piece := range strings.Split(raw, ",") {
			part := strings.TrimSpace(piece)
			if part == "" {
				continue
			}
			out = append(out, part)
		}
	}
	return out
}

func parseInt(raw, key string) (int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %q", key, raw)
	}
	return n, nil
}

func trimSlice(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := values[:0]
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
