// Package repolink は git のリモートと HEAD から、診断箇所をホスティングサービス上で開く URL を作ります。
package repolink

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/phyten/jcomment/internal/engine"
	"github.com/phyten/jcomment/internal/execx"
)

// Remote はリモート URL から取り出したホストとリポジトリです。
type Remote struct {
	Host   string
	Owner  string
	Repo   string
	Scheme string
}

// ParseRemote は remote.<name>.url の値（scp 形式・ssh・git・http(s)）を解析します。
func ParseRemote(raw string) (Remote, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Remote{}, errors.New("empty remote url")
	}
	// git@host:owner/repo.git
	if rest, ok := strings.CutPrefix(raw, "git@"); ok && !strings.Contains(raw, "://") {
		host, p, found := strings.Cut(rest, ":")
		if !found {
			return Remote{}, fmt.Errorf("invalid ssh remote: %s", raw)
		}
		owner, repo, err := ownerRepo(p)
		if err != nil {
			return Remote{}, err
		}
		return Remote{Host: strings.ToLower(strings.TrimSpace(host)), Owner: owner, Repo: repo}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Remote{}, fmt.Errorf("invalid remote url: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case "ssh", "git", "http", "https":
	default:
		return Remote{}, fmt.Errorf("unsupported remote url: %s", raw)
	}
	p, err := url.PathUnescape(strings.TrimPrefix(u.Path, "/"))
	if err != nil {
		return Remote{}, fmt.Errorf("invalid remote path: %w", err)
	}
	owner, repo, err := ownerRepo(p)
	if err != nil {
		return Remote{}, err
	}
	r := Remote{Host: strings.ToLower(u.Host), Owner: owner, Repo: repo}
	if scheme == "http" || scheme == "https" {
		r.Scheme = scheme
	}
	return r, nil
}

func ownerRepo(p string) (string, string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	cleaned = strings.Trim(strings.TrimSuffix(strings.Trim(cleaned, "/"), ".git"), "/")
	if cleaned == "" {
		return "", "", errors.New("missing owner/repo in remote url")
	}
	segs := strings.Split(cleaned, "/")
	if len(segs) < 2 || segs[len(segs)-2] == "" || segs[len(segs)-1] == "" {
		return "", "", errors.New("remote url must include owner and repo")
	}
	return segs[len(segs)-2], segs[len(segs)-1], nil
}

// WebScheme は http のリモートだけ http を返し、それ以外（ssh を含む）は https です。
func (r Remote) WebScheme() string {
	if r.Scheme == "http" {
		return "http"
	}
	return "https"
}

// WebURL はリポジトリのトップページです。
func (r Remote) WebURL() string {
	return fmt.Sprintf("%s://%s/%s/%s", r.WebScheme(), strings.TrimSuffix(r.Host, "/"), url.PathEscape(r.Owner), url.PathEscape(r.Repo))
}

// Linker は固定したリビジョンへのリンクを作ります。
type Linker struct {
	Remote   Remote
	Revision string
}

// Line は file の line 行目を指す blob URL を返します。入力が欠けていれば空文字です。
// Markdown はレンダリングされると行番号で飛べないため plain=1 を付けます。
func (l Linker) Line(file string, line int) string {
	if l.Revision == "" || file == "" || line <= 0 {
		return ""
	}
	query := ""
	if lower := strings.ToLower(file); strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown") {
		query = "?plain=1"
	}
	return fmt.Sprintf("%s/blob/%s/%s%s#L%d", l.Remote.WebURL(), url.PathEscape(l.Revision), escapePath(file), query, line)
}

// Annotate は各診断の URL を埋めます。
func (l Linker) Annotate(ds []engine.Diagnostic) {
	for i := range ds {
		ds[i].URL = l.Line(ds[i].File, ds[i].Line)
	}
}

func escapePath(file string) string {
	parts := strings.Split(strings.ReplaceAll(file, "\\", "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return path.Join(parts...)
}

// Options は Detect の設定です。RemoteName が空なら origin、Scheme は http|https のみ有効です。
type Options struct {
	RemoteName string
	Scheme     string
	Runner     execx.Runner
}

// Detect は repoDir のリモート URL と HEAD のコミットから Linker を作ります。
func Detect(ctx context.Context, repoDir string, opts Options) (Linker, error) {
	name := strings.TrimSpace(opts.RemoteName)
	if name == "" {
		name = "origin"
	}
	key := "remote." + name + ".url"
	out, err := execx.Output(ctx, opts.Runner, repoDir, "git", "config", "--get", key)
	if err != nil {
		return Linker{}, fmt.Errorf("read %s: %w", key, err)
	}
	remote, err := ParseRemote(string(out))
	if err != nil {
		return Linker{}, err
	}
	switch s := strings.ToLower(strings.TrimSpace(opts.Scheme)); s {
	case "http", "https":
		remote.Scheme = s
	}
	rev, err := execx.Output(ctx, opts.Runner, repoDir, "git", "rev-parse", "HEAD")
	if err != nil {
		return Linker{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	return Linker{Remote: remote, Revision: strings.TrimSpace(string(rev))}, nil
}
