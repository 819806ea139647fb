package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phyten/jcomment/internal/detect"
	"github.com/phyten/jcomment/internal/engine"
	"github.com/phyten/jcomment/internal/watch"
)

func (a *app) newWatchCmd() *cobra.Command {
	flags := &scanFlags{}
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "ファイルの変更を監視し、変更されたファイルを検査し直します",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd, flags, debounce, args)
		},
	}
	bindScanFlags(cmd, flags)
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "最後の変更から検査を始めるまでの待ち時間")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, f *scanFlags, debounce time.Duration, args []string) error {
	layer, err := f.layer(cmd, a.root.color, args)
	if err != nil {
		return usageError(err)
	}
	r, err := a.resolve(layer)
	if err != nil {
		return usageError(err)
	}
	opts, err := a.engineOptions(r)
	if err != nil {
		return usageError(err)
	}
	outOpts, sortSpec, err := a.outputOptions(r.engine, f)
	if err != nil {
		return usageError(err)
	}
	matcher, err := engine.NewPathMatcher(opts)
	if err != nil {
		return usageError(err)
	}

	ctx := cmd.Context()
	lint := func(ctx context.Context, files []string) error {
		batch := opts
		batch.Files = files
		res, err := engine.Run(ctx, batch)
		if err != nil {
			return err
		}
		a.logger.Info("linted",
			zap.Int("files", res.Files),
			zap.Int("diagnostics", res.Total),
			zap.Int64("elapsed_ms", res.ElapsedMS))
		return a.report(ctx, batch, res, outOpts, sortSpec, f.withLink)
	}

	wopts := watch.Options{
		Root:     opts.RepoDir,
		Debounce: debounce,
		SkipDir:  matcher.SkipDir,
		Match: func(rel string) bool {
			if !matcher.Match(rel) {
				return false
			}
			info := detect.FromPathAndContent(rel, nil)
			return info.Name != "" && detect.MatchesLang(info, opts.DetectLangs)
		},
		// 監視の登録後に全体を 1 度検査する
		OnReady: func(watch.Stats) {
			if err := lint(ctx, nil); err != nil && ctx.Err() == nil {
				a.logger.Warn("initial scan failed", zap.Error(err))
			}
		},
		Logger: a.logger,
	}
	_, err = watch.Run(ctx, wopts, func(ctx context.Context, changed []string) error {
		existing := existingFiles(opts.RepoDir, changed)
		if len(existing) == 0 {
			return nil
		}
		return lint(ctx, existing)
	})
	if err != nil {
		return usageError(err)
	}
	return nil
}

// existingFiles は削除や改名で消えたパスを取り除きます。
func existingFiles(root string, rels []string) []string {
	out := make([]string, 0, len(rels))
	for _, rel := range rels {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		out = append(out, rel)
	}
	return out
}
