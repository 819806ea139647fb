package config

import (
	"fmt"
	"strings"

	engineopts "github.com/phyten/jcomment/internal/engine/opts"
	"github.com/phyten/jcomment/internal/rules"
	"github.com/phyten/jcomment/internal/termcolor"
)

// CanonicalizeProgress は progress の値を auto|always|never に揃えます。真偽値の別名も受け付けます。
func CanonicalizeProgress(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "", "auto":
		return "auto", nil
	case "always", "force":
		return "always", nil
	case "never":
		return "never", nil
	}
	b, err := engineopts.ParseBool(v, "progress")
	if err != nil {
		return "", err
	}
	if b {
		return "always", nil
	}
	return "never", nil
}

// NormalizeEngine は engine.Options に載らない出力系の値を検証します。
// engine 側の値は engineopts.NormalizeAndValidate で検証されます。
func NormalizeEngine(values EngineSettings) (EngineSettings, error) {
	var err error
	values.Output, err = engineopts.NormalizeOutput(values.Output)
	if err != nil {
		return values, err
	}
	mode, err := termcolor.ParseMode(values.Color)
	if err != nil {
		return values, err
	}
	values.Color = mode.String()
	values.FailOn, err = engineopts.NormalizeFailOn(values.FailOn)
	if err != nil {
		return values, err
	}
	values.Progress, err = CanonicalizeProgress(values.Progress)
	if err != nil {
		return values, err
	}
	return values, nil
}

// NormalizeRules はルール指定を検証し、id・重大度を正規化します。
func NormalizeRules(values RuleSettings) (RuleSettings, error) {
	for _, key := range append(cloneStrings(values.Enable), values.Disable...) {
		if _, ok := rules.Lookup(key); !ok {
			return values, fmt.Errorf("unknown rule: %s", key)
		}
	}
	if len(values.Severity) == 0 {
		return values, nil
	}
	normalized, err := rules.NormalizeSeverities(values.Severity)
	if err != nil {
		return values, err
	}
	out := make(map[string]string, len(normalized))
	for id, sev := range normalized {
		out[id] = string(sev)
	}
	values.Severity = out
	return values, nil
}
