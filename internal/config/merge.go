package config

import (
	"strings"

	"github.com/phyten/jcomment/internal/rules"
)

// overlay は上位の層が値を持つときだけ dst を置き換えます。
func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func overlayTrim(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// overlayList は空リストを「明示的に空にする」指定として扱います。
func overlayList(dst *[]string, v *[]string) {
	if v == nil {
		return
	}
	*dst = append([]string{}, (*v)...)
}

func boolPtr(v bool) *bool {
	b := v
	return &b
}

// MergeEngine は base に layers を順に重ねます。後の層ほど優先です。
func MergeEngine(base EngineSettings, layers ...EngineConfig) EngineSettings {
	out := base
	out.Paths = cloneStrings(base.Paths)
	out.Excludes = cloneStrings(base.Excludes)
	out.PathRegex = cloneStrings(base.PathRegex)
	out.DetectLangs = cloneStrings(base.DetectLangs)
	for _, layer := range layers {
		overlayTrim(&out.Detect, layer.Detect)
		overlayList(&out.Paths, layer.Paths)
		overlayList(&out.Excludes, layer.Excludes)
		overlayList(&out.PathRegex, layer.PathRegex)
		overlay(&out.ExcludeTypical, layer.ExcludeTypical)
		overlayList(&out.DetectLangs, layer.DetectLangs)
		overlay(&out.Jobs, layer.Jobs)
		overlayTrim(&out.Repo, layer.Repo)
		overlay(&out.MaxFileBytes, layer.MaxFileBytes)
		overlay(&out.NoGit, layer.NoGit)
		overlay(&out.ExcerptWidth, layer.ExcerptWidth)
		overlayTrim(&out.Output, layer.Output)
		overlayTrim(&out.Color, layer.Color)
		overlayTrim(&out.FailOn, layer.FailOn)
		overlayTrim(&out.Progress, layer.Progress)
	}
	if strings.TrimSpace(out.Output) == "" {
		out.Output = "table"
	}
	if strings.TrimSpace(out.Color) == "" {
		out.Color = "auto"
	}
	if strings.TrimSpace(out.Progress) == "" {
		out.Progress = "auto"
	}
	return out
}

// MergeRules は enable/disable を後勝ちで、severity はキーごとに後勝ちで重ねます。
func MergeRules(base RuleSettings, layers ...RulesConfig) RuleSettings {
	out := base
	out.Enable = cloneStrings(base.Enable)
	out.Disable = cloneStrings(base.Disable)
	out.Severity = cloneMap(base.Severity)
	for _, layer := range layers {
		overlay(&out.EnableAll, layer.EnableAll)
		overlayList(&out.Enable, layer.Enable)
		overlayList(&out.Disable, layer.Disable)
		if layer.Severity == nil {
			continue
		}
		for k, v := range *layer.Severity {
			if out.Severity == nil {
				out.Severity = make(map[string]string)
			}
			key := canonicalRuleKey(k)
			for existing := range out.Severity {
				if existing != key && canonicalRuleKey(existing) == key {
					delete(out.Severity, existing)
				}
			}
			out.Severity[key] = strings.TrimSpace(v)
		}
	}
	return out
}

// canonicalRuleKey は既知のルールなら id に揃え、未知ならそのまま返します（検証で弾くため）。
func canonicalRuleKey(k string) string {
	k = strings.TrimSpace(k)
	if r, ok := rules.Lookup(k); ok {
		return r.ID
	}
	return k
}
