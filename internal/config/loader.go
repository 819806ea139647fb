package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	engineopts "github.com/phyten/jcomment/internal/engine/opts"
)

var engineKeyMap = map[string]string{
	"detect":          "detect",
	"detect_mode":     "detect",
	"mode":            "detect",
	"path":            "path",
	"paths":           "path",
	"exclude":         "exclude",
	"excludes":        "exclude",
	"path_regex":      "path_regex",
	"path_regexes":    "path_regex",
	"lang":            "lang",
	"langs":           "lang",
	"detect_langs":    "lang",
	"exclude_typical": "exclude_typical",
	"jobs":            "jobs",
	"repo":            "repo",
	"max_file_bytes":  "max_file_bytes",
	"max_bytes":       "max_file_bytes",
	"no_git":          "no_git",
	"excerpt_width":   "excerpt_width",
	"output":          "output",
	"format":          "output",
	"color":           "color",
	"fail_on":         "fail_on",
	"progress":        "progress",
}

var rulesKeyMap = map[string]string{
	"enable_all": "enable_all",
	"all":        "enable_all",
	"enable":     "enable",
	"disable":    "disable",
	"severity":   "severity",
	"severities": "severity",
}

type engineSetter func(value any, key string, dst *EngineConfig) error

var engineSetters = map[string]engineSetter{
	"detect":          stringSetter(func(c *EngineConfig) **string { return &c.Detect }),
	"path":            listSetter(func(c *EngineConfig) **[]string { return &c.Paths }),
	"exclude":         listSetter(func(c *EngineConfig) **[]string { return &c.Excludes }),
	"path_regex":      listSetter(func(c *EngineConfig) **[]string { return &c.PathRegex }),
	"lang":            listSetter(func(c *EngineConfig) **[]string { return &c.DetectLangs }),
	"exclude_typical": boolSetter(func(c *EngineConfig) **bool { return &c.ExcludeTypical }),
	"jobs":            intSetter(func(c *EngineConfig) **int { return &c.Jobs }),
	"repo":            stringSetter(func(c *EngineConfig) **string { return &c.Repo }),
	"max_file_bytes":  intSetter(func(c *EngineConfig) **int { return &c.MaxFileBytes }),
	"no_git":          boolSetter(func(c *EngineConfig) **bool { return &c.NoGit }),
	"excerpt_width":   intSetter(func(c *EngineConfig) **int { return &c.ExcerptWidth }),
	"output":          stringSetter(func(c *EngineConfig) **string { return &c.Output }),
	"color":           stringSetter(func(c *EngineConfig) **string { return &c.Color }),
	"fail_on":         stringSetter(func(c *EngineConfig) **string { return &c.FailOn }),
	"progress":        progressSetter,
}

// Load は拡張子に応じて YAML・TOML・JSON を読み込みます。空のパスは空の Config を返します。
func Load(path string) (Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	raw, err := decodeRaw(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw == nil {
		return cfg, nil
	}
	decoded, err := decodeConfigMap(raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return decoded, nil
}

func decodeRaw(data []byte, ext string) (map[string]any, error) {
	var raw map[string]any
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config extension: %q", ext)
	}
	return raw, nil
}

func decodeConfigMap(raw map[string]any) (Config, error) {
	var cfg Config
	engineSection := make(map[string]any)
	rulesSection := make(map[string]any)

	if block, ok := lookupSection(raw, "engine"); ok {
		sub, err := toStringKeyMap(block)
		if err != nil {
			return cfg, fmt.Errorf("engine: %w", err)
		}
		if err := fillSection(engineSection, sub, engineKeyMap, "engine"); err != nil {
			return cfg, err
		}
	}
	if block, ok := lookupSection(raw, "rules"); ok {
		sub, err := toStringKeyMap(block)
		if err != nil {
			return cfg, fmt.Errorf("rules: %w", err)
		}
		if err := fillSection(rulesSection, sub, rulesKeyMap, "rules"); err != nil {
			return cfg, err
		}
	}

	for key, value := range raw {
		norm := normalizeKey(key)
		if norm == "engine" || norm == "rules" {
			continue
		}
		canonical, ok := engineKeyMap[norm]
		if !ok {
			return cfg, fmt.Errorf("unknown config key: %s", key)
		}
		engineSection[canonical] = value
	}

	if err := assignEngine(engineSection, &cfg.Engine); err != nil {
		return cfg, fmt.Errorf("engine: %w", err)
	}
	if err := assignRules(rulesSection, &cfg.Rules); err != nil {
		return cfg, fmt.Errorf("rules: %w", err)
	}
	return cfg, nil
}

func lookupSection(raw map[string]any, name string) (any, bool) {
	for k, v := range raw {
		if normalizeKey(k) == name {
			return v, true
		}
	}
	return nil, false
}

func fillSection(dst, src map[string]any, allowed map[string]string, section string) error {
	for key, value := range src {
		canonical, ok := allowed[normalizeKey(key)]
		if !ok {
			return fmt.Errorf("unknown %s key: %s", section, key)
		}
		dst[canonical] = value
	}
	return nil
}

func assignEngine(section map[string]any, dst *EngineConfig) error {
	keys := make([]string, 0, len(section))
	for k := range section {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		set, ok := engineSetters[key]
		if !ok {
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := set(section[key], key, dst); err != nil {
			return err
		}
	}
	return nil
}

func assignRules(section map[string]any, dst *RulesConfig) error {
	for key, value := range section {
		switch key {
		case "enable_all":
			b, err := expectBool(value, key)
			if err != nil {
				return err
			}
			dst.EnableAll = &b
		case "enable":
			list, err := expectStringList(value, key)
			if err != nil {
				return err
			}
			dst.Enable = &list
		case "disable":
			list, err := expectStringList(value, key)
			if err != nil {
				return err
			}
			dst.Disable = &list
		case "severity":
			m, err := expectSeverityMap(value, key)
			if err != nil {
				return err
			}
			dst.Severity = &m
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
	}
	return nil
}

func stringSetter(field func(*EngineConfig) **string) engineSetter {
	return func(value any, key string, dst *EngineConfig) error {
		s, err := expectString(value, key)
		if err != nil {
			return err
		}
		trimmed := strings.TrimSpace(s)
		*field(dst) = &trimmed
		return nil
	}
}

func listSetter(field func(*EngineConfig) **[]string) engineSetter {
	return func(value any, key string, dst *EngineConfig) error {
		list, err := expectStringList(value, key)
		if err != nil {
			return err
		}
		*field(dst) = &list
		return nil
	}
}

func boolSetter(field func(*EngineConfig) **bool) engineSetter {
	return func(value any, key string, dst *EngineConfig) error {
		b, err := expectBool(value, key)
		if err != nil {
			return err
		}
		*field(dst) = &b
		return nil
	}
}

func intSetter(field func(*EngineConfig) **int) engineSetter {
	return func(value any, key string, dst *EngineConfig) error {
		n, err := expectInt(value, key)
		if err != nil {
			return err
		}
		*field(dst) = &n
		return nil
	}
}

// progressSetter は progress: true / false も auto|always|never と同様に受け付けます。
func progressSetter(value any, key string, dst *EngineConfig) error {
	var raw string
	switch v := value.(type) {
	case bool:
		raw = strconv.FormatBool(v)
	default:
		s, err := expectString(value, key)
		if err != nil {
			return err
		}
		raw = s
	}
	canonical, err := CanonicalizeProgress(raw)
	if err != nil {
		return err
	}
	dst.Progress = &canonical
	return nil
}

func expectString(value any, field string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%s cannot be null", field)
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string for %s, got %T", field, value)
}

func expectBool(value any, field string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return engineopts.ParseBool(v, field)
	default:
		return false, fmt.Errorf("expected bool for %s, got %T", field, value)
	}
}

func expectInt(value any, field string) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer for %s, got %v", field, value)
		}
		return int(v), nil
	case json.Number:
		n, err := strconv.Atoi(v.String())
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %v", field, value)
		}
		return n, nil
	case string:
		return engineopts.ParseIntInRange(v, field, 0, -1)
	default:
		return 0, fmt.Errorf("expected integer for %s, got %T", field, value)
	}
}

func expectStringList(value any, field string) ([]string, error) {
	switch v := value.(type) {
	case string:
		return engineopts.SplitMulti([]string{v}), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, err := expectString(item, field)
			if err != nil {
				return nil, err
			}
			out = append(out, str)
		}
		return normalizeList(out), nil
	case []string:
		return normalizeList(v), nil
	default:
		return nil, fmt.Errorf("expected string or list for %s, got %T", field, value)
	}
}

// expectSeverityMap は {SAJ0002: error} の形式か、"SAJ0002=error" のリストを受け付けます。
func expectSeverityMap(value any, field string) (map[string]string, error) {
	switch v := value.(type) {
	case []any, []string, string:
		list, err := expectStringList(v, field)
		if err != nil {
			return nil, err
		}
		return engineopts.ParseSeverityPairs(list)
	}
	m, err := toStringKeyMap(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	out := make(map[string]string, len(m))
	for k, raw := range m {
		level, err := expectString(raw, field+"."+k)
		if err != nil {
			return nil, err
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(level)
	}
	return out, nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

func toStringKeyMap(v any) (map[string]any, error) {
	switch typed := v.(type) {
	case map[string]any:
		return typed, nil
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, value := range typed {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key: %v", k)
			}
			out[key] = value
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected map, got %T", v)
	}
}

func normalizeKey(key string) string {
	norm := strings.ToLower(strings.TrimSpace(key))
	return strings.ReplaceAll(norm, "-", "_")
}
