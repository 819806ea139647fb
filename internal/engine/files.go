package engine

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/phyten/jcomment/internal/execx"
)

const (
	sourceGit  = "git"
	sourceWalk = "walk"
	sourceList = "list"
)

// listFiles は走査対象のファイルを RepoDir からの相対パス（スラッシュ区切り）で返します。
// git の作業ツリーであれば追跡中と未追跡（.gitignore 対象外）のファイルを、そうでなければディレクトリを辿った結果を使います。
func listFiles(ctx context.Context, opts Options) ([]string, string, error) {
	if len(opts.Files) > 0 {
		return explicitFiles(opts.Files), sourceList, nil
	}
	if !opts.NoGit && insideWorkTree(ctx, opts.Runner, opts.RepoDir) {
		files, err := gitListFiles(ctx, opts.Runner, opts.RepoDir, opts.Paths, opts.Excludes, opts.ExcludeTypical)
		return files, sourceGit, err
	}
	files, err := walkFiles(ctx, opts.RepoDir, opts.Paths, opts.Excludes, opts.ExcludeTypical)
	return files, sourceWalk, err
}

func explicitFiles(files []string) []string {
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel := filepath.ToSlash(filepath.Clean(strings.TrimSpace(f)))
		if rel == "." || rel == "" {
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		out = append(out, rel)
	}
	sort.Strings(out)
	return out
}

func insideWorkTree(ctx context.Context, r execx.Runner, dir string) bool {
	out, err := execx.Output(ctx, r, dir, "git", "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

func gitListFiles(ctx context.Context, r execx.Runner, repo string, includes, excludes []string, typical bool) ([]string, error) {
	args := []string{"-c", "core.quotePath=false", "ls-files", "-z", "--cached", "--others", "--exclude-standard", "--"}
	args = append(args, buildGitPathspecs(includes, excludes, typical)...)
	out, err := execx.Output(ctx, r, repo, "git", args...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	parts := bytes.Split(out, []byte{0})
	seen := make(map[string]struct{}, len(parts))
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) == 0 {
			continue
		}
		rel := filepath.ToSlash(string(p))
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths, nil
}

func walkFiles(ctx context.Context, root string, includes, excludes []string, typical bool) ([]string, error) {
	var incl, excl []string
	for _, raw := range includes {
		if t := strings.TrimSpace(raw); t != "" {
			incl = append(incl, stripMagic(filepath.ToSlash(t)))
		}
	}
	if typical {
		excl = append(excl, typicalExcludes...)
	}
	for _, raw := range excludes {
		if t := strings.TrimSpace(raw); t != "" {
			excl = append(excl, stripMagic(filepath.ToSlash(t)))
		}
	}

	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if d.Name() == ".git" || matchAnyGlob(excl, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if len(incl) > 0 && !matchAnyGlob(incl, rel) {
			return nil
		}
		if matchAnyGlob(excl, rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func matchAnyGlob(patterns []string, rel string) bool {
	for _, p := range patterns {
		if matchGlob(p, rel) {
			return true
		}
	}
	return false
}
