package repolink

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/jcomment/internal/engine"
)

func TestParseRemote(t *testing.T) {
	cases := []struct {
		raw  string
		want Remote
	}{
		{"git@github.com:owner/repo.git", Remote{Host: "github.com", Owner: "owner", Repo: "repo"}},
		{"https://example.com/org/project.git", Remote{Host: "example.com", Owner: "org", Repo: "project", Scheme: "https"}},
		{"http://git.example.com:8080/org/project.git", Remote{Host: "git.example.com:8080", Owner: "org", Repo: "project", Scheme: "http"}},
		{"ssh://git@ghes.local:2222/org/project.git", Remote{Host: "ghes.local:2222", Owner: "org", Repo: "project"}},
		{"https://deploy@github.example.com/team/repo/", Remote{Host: "github.example.com", Owner: "team", Repo: "repo", Scheme: "https"}},
		{"https://example.com/group/sub/org\\repo.git", Remote{Host: "example.com", Owner: "org", Repo: "repo", Scheme: "https"}},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseRemote(tc.raw)
			if err != nil {
				t.Fatalf("ParseRemote failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("remote mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, raw := range []string{"", "git@github.com", "ftp://example.com/a/b", "https://example.com/only", "/local/path"} {
		if _, err := ParseRemote(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestWebSchemeDefaultsToHTTPS(t *testing.T) {
	r, err := ParseRemote("ssh://git@ghes.local:2222/org/project.git")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.WebURL(); got != "https://ghes.local:2222/org/project" {
		t.Fatalf("WebURL = %s", got)
	}
}

func TestLinkerLine(t *testing.T) {
	l := Linker{Remote: Remote{Host: "github.com", Owner: "owner", Repo: "repo"}, Revision: "abcdef"}
	cases := map[string]struct {
		file string
		line int
		want string
	}{
		"source":   {"src/main.go", 42, "https://github.com/owner/repo/blob/abcdef/src/main.go#L42"},
		"markdown": {"docs/README.md", 10, "https://github.com/owner/repo/blob/abcdef/docs/README.md?plain=1#L10"},
		"escape":   {"dir/sub dir/ファイル.go", 1, "https://github.com/owner/repo/blob/abcdef/dir/sub%20dir/%E3%83%95%E3%82%A1%E3%82%A4%E3%83%AB.go#L1"},
		"no line":  {"a.go", 0, ""},
		"no file":  {"", 3, ""},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := l.Line(tc.file, tc.line); got != tc.want {
				t.Fatalf("Line = %s, want %s", got, tc.want)
			}
		})
	}
	if got := (Linker{Remote: l.Remote}).Line("a.go", 1); got != "" {
		t.Fatalf("missing revision should yield empty link: %s", got)
	}
}

func TestAnnotate(t *testing.T) {
	l := Linker{Remote: Remote{Host: "example.com", Owner: "org", Repo: "proj", Scheme: "http"}, Revision: "123"}
	ds := []engine.Diagnostic{{File: "a.go", Line: 3}, {File: "b.go", Line: 0}}
	l.Annotate(ds)
	if ds[0].URL != "http://example.com/org/proj/blob/123/a.go#L3" || ds[1].URL != "" {
		t.Fatalf("unexpected urls: %q %q", ds[0].URL, ds[1].URL)
	}
}

type gitStub struct {
	remotes map[string]string
	head    string
}

func (g gitStub) Run(_ context.Context, _ string, name string, args ...string) ([]byte, []byte, error) {
	if name != "git" {
		return nil, nil, errors.New("unexpected command")
	}
	switch {
	case len(args) == 3 && args[0] == "config":
		if v, ok := g.remotes[args[2]]; ok {
			return []byte(v + "\n"), nil, nil
		}
		return nil, nil, errors.New("exit status 1")
	case len(args) == 2 && args[0] == "rev-parse":
		return []byte(g.head + "\n"), nil, nil
	}
	return nil, []byte("unexpected args"), errors.New("exit status 128")
}

func TestDetect(t *testing.T) {
	git := gitStub{
		remotes: map[string]string{
			"remote.origin.url":   "https://github.com/example/default.git",
			"remote.upstream.url": "ssh://git@github.example.com:2222/team/demo.git",
		},
		head: "deadbeef",
	}

	l, err := Detect(context.Background(), ".", Options{Runner: git})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if l.Remote.Repo != "default" || l.Revision != "deadbeef" {
		t.Fatalf("unexpected linker: %+v", l)
	}

	l, err = Detect(context.Background(), ".", Options{Runner: git, RemoteName: "upstream", Scheme: "HTTP"})
	if err != nil {
		t.Fatalf("Detect(upstream) failed: %v", err)
	}
	if got := l.Remote.WebURL(); got != "http://github.example.com:2222/team/demo" {
		t.Fatalf("scheme override not applied: %s", got)
	}

	l, err = Detect(context.Background(), ".", Options{Runner: git, Scheme: "ftp"})
	if err != nil || l.Remote.WebScheme() != "https" {
		t.Fatalf("invalid scheme override should be ignored: %+v %v", l, err)
	}

	if _, err := Detect(context.Background(), ".", Options{Runner: git, RemoteName: "missing"}); err == nil {
		t.Fatal("expected error for missing remote")
	}
}
