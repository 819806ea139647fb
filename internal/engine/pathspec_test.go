package engine

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildGitPathspecs_DefaultsToDot(t *testing.T) {
	t.Parallel()

	got := buildGitPathspecs(nil, nil, false)
	if diff := cmp.Diff([]string{"."}, got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestBuildGitPathspecsIncludesAndExcludes(t *testing.T) {
	t.Parallel()

	includes := []string{"src", " pkg ", "windows\\path"}
	excludes := []string{"vendor/**", ":(exclude)third_party/**", ":!build/**"}

	got := buildGitPathspecs(includes, excludes, true)

	want := []string{"src", "pkg", filepath.ToSlash("windows\\path")}
	for _, p := range typicalExcludes {
		want = append(want, ":(glob,exclude)"+p)
	}
	want = append(want, ":(glob,exclude)vendor/**", ":(exclude)third_party/**", ":!build/**")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("pathspecs mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchGlob(t *testing.T) {
	t.Parallel()

	cases := []struct {
		pattern string
		rel     string
		want    bool
	}{
		{".", "a/b.go", true},
		{"src", "src/main.go", true},
		{"src", "srcx/main.go", false},
		{"vendor/**", "vendor/a/b.go", true},
		{"vendor/**", "vendor", true},
		{"vendor/**", "pkg/vendor/a.go", false},
		{"**/testdata/**", "pkg/x/testdata/a.go", true},
		{"**/*.go", "a.go", true},
		{"*.min.*", "web/app.min.js", true},
		{"*.py", "b.py", true},
		{"docs/*.md", "docs/a.md", true},
		{"docs/*.md", "docs/sub/a.md", false},
		{"./cmd/", "cmd/main.go", true},
	}
	for _, tc := range cases {
		if got := matchGlob(tc.pattern, tc.rel); got != tc.want {
			t.Errorf("matchGlob(%q, %q) = %t, want %t", tc.pattern, tc.rel, got, tc.want)
		}
	}
}

func TestStripMagic(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		":(glob,exclude)vendor/**": "vendor/**",
		":!build/**":               "build/**",
		":^dist":                   "dist",
		"plain":                    "plain",
	} {
		if got := stripMagic(in); got != want {
			t.Errorf("stripMagic(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCompilePathRegexTrimsAndValidates(t *testing.T) {
	t.Parallel()

	rx, err := CompilePathRegex([]string{"  ", "^src/", "(cmd|pkg)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rx) != 2 {
		t.Fatalf("expected 2 regexps, got %d", len(rx))
	}

	if _, err := CompilePathRegex([]string{"["}); err == nil {
		t.Fatal("expected compile error for invalid regexp")
	}
}

func TestFilterPathsByRegex(t *testing.T) {
	t.Parallel()

	paths := []string{"src/main.go", "pkg/util.go", "docs/readme.md"}
	rx := []*regexp.Regexp{regexp.MustCompile(`^src/`), regexp.MustCompile(`\.go$`)}

	got := filterPathsByRegex(paths, rx)
	if diff := cmp.Diff([]string{"src/main.go", "pkg/util.go"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if all := filterPathsByRegex(paths, nil); len(all) != len(paths) {
		t.Fatalf("expected original slice when no regex: %d vs %d", len(all), len(paths))
	}
}

func TestPathMatcher(t *testing.T) {
	t.Parallel()

	m, err := NewPathMatcher(Options{
		Paths:          []string{"src"},
		Excludes:       []string{":!src/gen/**"},
		ExcludeTypical: true,
		PathRegex:      []string{`\.(go|py)$`},
	})
	if err != nil {
		t.Fatalf("NewPathMatcher failed: %v", err)
	}

	cases := map[string]bool{
		"src/a.go":       true,
		"src/pkg/b.py":   true,
		"src/a.txt":      false,
		"docs/a.go":      false,
		"src/gen/x.go":   false,
		"src/app.min.go": false,
	}
	for rel, want := range cases {
		if got := m.Match(rel); got != want {
			t.Errorf("Match(%q) = %v, want %v", rel, got, want)
		}
	}
	if !m.SkipDir("vendor") || !m.SkipDir("src/gen") {
		t.Error("excluded directories should be skipped")
	}
	if m.SkipDir("src") {
		t.Error("src should not be skipped")
	}

	if _, err := NewPathMatcher(Options{PathRegex: []string{"("}}); err == nil {
		t.Error("expected error for invalid regex")
	}
}
