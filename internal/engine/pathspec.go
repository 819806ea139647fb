package engine

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var typicalExcludes = []string{
	"vendor/**",
	"node_modules/**",
	"dist/**",
	"build/**",
	"target/**",
	"*.min.*",
}

// buildGitPathspecs builds the list to append after "--" for `git ls-files`.
func buildGitPathspecs(includes, excludes []string, typical bool) []string {
	out := make([]string, 0, len(includes)+len(excludes)+len(typicalExcludes)+1)
	for _, raw := range includes {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		out = append(out, filepath.ToSlash(trimmed))
	}
	if len(out) == 0 {
		out = append(out, ".")
	}
	if typical {
		for _, p := range typicalExcludes {
			out = append(out, ":(glob,exclude)"+p)
		}
	}
	for _, raw := range excludes {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		trimmed = filepath.ToSlash(trimmed)
		if strings.HasPrefix(trimmed, ":") {
			out = append(out, trimmed)
			continue
		}
		out = append(out, ":(glob,exclude)"+trimmed)
	}
	return out
}

// stripMagic は ":(glob,exclude)x" や ":!x" から x を取り出します。
func stripMagic(spec string) string {
	switch {
	case strings.HasPrefix(spec, ":!"), strings.HasPrefix(spec, ":^"):
		return spec[2:]
	case strings.HasPrefix(spec, ":("):
		if i := strings.IndexByte(spec, ')'); i >= 0 {
			return spec[i+1:]
		}
	}
	return spec
}

// matchGlob は git の glob pathspec に近い規則で rel を照合します。
// "**" は任意の深さのディレクトリに一致し、"/" を含まないパターンはベース名とも照合します。
// ディレクトリ名そのものを与えた場合は配下すべてに一致します。
func matchGlob(pattern, rel string) bool {
	pattern = strings.TrimPrefix(path.Clean(filepath.ToSlash(pattern)), "./")
	if pattern == "." || pattern == "" {
		return true
	}
	if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
		return true
	}
	if strings.Contains(pattern, "**") {
		return matchDoubleStar(strings.Split(pattern, "/"), strings.Split(rel, "/"))
	}
	if ok, _ := path.Match(pattern, rel); ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, _ := path.Match(pattern, path.Base(rel))
		return ok
	}
	return false
}

func matchDoubleStar(pat, segs []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			rest := pat[1:]
			if len(rest) == 0 {
				return true
			}
			for i := 0; i <= len(segs); i++ {
				if matchDoubleStar(rest, segs[i:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, _ := path.Match(pat[0], segs[0]); !ok {
			return false
		}
		pat, segs = pat[1:], segs[1:]
	}
	return len(segs) == 0
}

// CompilePathRegex compiles the --path-regex values, skipping blanks.
func CompilePathRegex(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, raw := range patterns {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		rx, err := regexp.Compile(trimmed)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, rx)
	}
	return compiled, nil
}

func filterPathsByRegex(paths []string, rx []*regexp.Regexp) []string {
	if len(rx) == 0 {
		return paths
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		for _, r := range rx {
			if r.MatchString(p) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// PathMatcher は Options の include/exclude glob とパス正規表現をまとめて評価します。
// ファイル列挙を経由しない経路（watch など）で同じ絞り込みを使うためのものです。
type PathMatcher struct {
	includes []string
	excludes []string
	regexes  []*regexp.Regexp
}

func NewPathMatcher(opts Options) (*PathMatcher, error) {
	m := &PathMatcher{regexes: opts.PathRegexCompiled}
	if m.regexes == nil && len(opts.PathRegex) > 0 {
		rx, err := CompilePathRegex(opts.PathRegex)
		if err != nil {
			return nil, err
		}
		m.regexes = rx
	}
	for _, raw := range opts.Paths {
		if t := strings.TrimSpace(raw); t != "" {
			m.includes = append(m.includes, stripMagic(filepath.ToSlash(t)))
		}
	}
	if opts.ExcludeTypical {
		m.excludes = append(m.excludes, typicalExcludes...)
	}
	for _, raw := range opts.Excludes {
		if t := strings.TrimSpace(raw); t != "" {
			m.excludes = append(m.excludes, stripMagic(filepath.ToSlash(t)))
		}
	}
	return m, nil
}

// SkipDir は rel 以下を丸ごと対象外にできるかを返します。
func (m *PathMatcher) SkipDir(rel string) bool {
	return matchAnyGlob(m.excludes, rel)
}

// Match はファイル rel が走査対象かを返します。
func (m *PathMatcher) Match(rel string) bool {
	if len(m.includes) > 0 && !matchAnyGlob(m.includes, rel) {
		return false
	}
	if matchAnyGlob(m.excludes, rel) {
		return false
	}
	return len(filterPathsByRegex([]string{rel}, m.regexes)) == 1
}
