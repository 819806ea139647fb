package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Severity は診断の重大度です。ルールの判定結果そのものには影響しません。
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHidden  Severity = "hidden"
)

// ParseSeverity は文字列を Severity に変換します。none は hidden の別名です。
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return SeverityError, nil
	case "", "warning", "warn":
		return SeverityWarning, nil
	case "info", "suggestion":
		return SeverityInfo, nil
	case "hidden", "none":
		return SeverityHidden, nil
	default:
		return "", fmt.Errorf("invalid severity: %s", raw)
	}
}

// Rank は比較用の順位を返します（大きいほど重い）。
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Settings はどのルールを有効にするか、どの重大度で報告するかを保持します。
type Settings struct {
	EnableAll bool
	Enable    []string
	Disable   []string
	Severity  map[string]Severity
}

// Active は設定を反映した有効ルールを登録順で返します。
//
// 既定値 → EnableAll → Enable → Disable の順に適用されるため、
// 同じ id が Enable と Disable の両方にあれば無効になります。
// EnableAll は非推奨ルールを含みません。
func Active(s Settings) ([]Rule, error) {
	on := make([]bool, len(registry))
	for i, r := range registry {
		on[i] = r.EnabledByDefault || (s.EnableAll && !r.Deprecated)
	}
	for _, key := range s.Enable {
		i, err := position(key)
		if err != nil {
			return nil, err
		}
		on[i] = true
	}
	for _, key := range s.Disable {
		i, err := position(key)
		if err != nil {
			return nil, err
		}
		on[i] = false
	}
	out := make([]Rule, 0, len(registry))
	for i, r := range registry {
		if on[i] {
			out = append(out, r)
		}
	}
	return out, nil
}

// SeverityFor は id に設定された重大度を返します。未設定なら warning です。
func (s Settings) SeverityFor(id string) Severity {
	if sev, ok := s.Severity[strings.ToUpper(id)]; ok {
		return sev
	}
	return SeverityWarning
}

// NormalizeSeverities は名前指定のキーを id に揃え、未知のキーをエラーにします。
func NormalizeSeverities(in map[string]string) (map[string]Severity, error) {
	if len(in) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]Severity, len(in))
	for _, k := range keys {
		r, ok := Lookup(k)
		if !ok {
			return nil, fmt.Errorf("unknown rule: %s", k)
		}
		sev, err := ParseSeverity(in[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[strings.ToUpper(r.ID)] = sev
	}
	return out, nil
}

func position(key string) (int, error) {
	i := Position(key)
	if i < 0 {
		return 0, fmt.Errorf("unknown rule: %s", key)
	}
	return i, nil
}
