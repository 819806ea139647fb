package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phyten/jcomment/internal/detect"
	"github.com/phyten/jcomment/internal/extract"
	"github.com/phyten/jcomment/internal/model"
	"github.com/phyten/jcomment/internal/progress"
	"github.com/phyten/jcomment/internal/rules"
	"github.com/phyten/jcomment/internal/textutil"
)

const (
	maxJobs             = 64
	defaultExcerptWidth = 60
)

// Run はオプションに従ってファイルを列挙し、各コメントに有効なルールを適用した結果を返します。
//
// 1 ファイルの失敗（読み込み・抽出）は Result.Errors に集約され、実行全体は中断しません。
// ctx がキャンセルされた場合は ctx のエラーを返します。
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.NumCPU()
	}
	if opts.Jobs > maxJobs {
		opts.Jobs = maxJobs
	}
	if strings.TrimSpace(opts.RepoDir) == "" {
		opts.RepoDir = "."
	}
	if opts.ExcerptWidth <= 0 {
		opts.ExcerptWidth = defaultExcerptWidth
	}
	mode, err := extract.ParseMode(opts.DetectMode)
	if err != nil {
		return nil, err
	}
	active, err := rules.Active(opts.Rules)
	if err != nil {
		return nil, err
	}
	if opts.PathRegexCompiled == nil && len(opts.PathRegex) > 0 {
		opts.PathRegexCompiled, err = CompilePathRegex(opts.PathRegex)
		if err != nil {
			return nil, fmt.Errorf("invalid --path-regex: %w", err)
		}
	}

	obs := opts.ProgressObserver
	if obs == nil {
		obs = progress.NoopObserver{}
	}
	// 列挙中は総数が分からないので件数なしで知らせる
	obs.Publish(progress.Snapshot{Stage: progress.StageDiscover, Warmup: true, StartedAt: start, UpdatedAt: time.Now()})

	files, source, err := listFiles(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	files = filterPathsByRegex(files, opts.PathRegexCompiled)
	logger.Debug("files discovered",
		zap.String("source", source),
		zap.Int("files", len(files)),
		zap.Int("rules", len(active)),
		zap.String("mode", string(mode)))

	est := progress.NewEstimator(len(files), progress.Config{})

	var (
		mu     sync.Mutex
		diags  []Diagnostic
		errs   []ItemError
		res    = &Result{Counts: map[string]int{}}
		linter = fileLinter{opts: opts, mode: mode, active: active, logger: logger}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for _, rel := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fr, err := linter.lint(gctx, rel)
			if err != nil {
				return err
			}
			mu.Lock()
			diags = append(diags, fr.diags...)
			errs = append(errs, fr.errs...)
			if fr.scanned {
				res.Files++
			}
			res.Comments += fr.comments
			res.Suppressed += fr.suppressed
			mu.Unlock()
			for _, ie := range fr.errs {
				logger.Warn("file skipped", zap.String("file", ie.File), zap.String("stage", ie.Stage), zap.String("error", ie.Message))
			}
			if snap, notify := est.Advance(len(fr.diags)); notify {
				obs.Publish(snap)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obs.Done(est.Complete())

	sortDiagnostics(diags)
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].File == errs[j].File {
			return errs[i].Stage < errs[j].Stage
		}
		return errs[i].File < errs[j].File
	})
	for _, d := range diags {
		res.Counts[d.RuleID]++
	}
	res.Diagnostics = diags
	res.Total = len(diags)
	res.Errors = errs
	res.ErrorCount = len(errs)
	res.ElapsedMS = time.Since(start).Milliseconds()
	logger.Debug("scan finished",
		zap.Int("files", res.Files),
		zap.Int("comments", res.Comments),
		zap.Int("diagnostics", res.Total),
		zap.Int("errors", res.ErrorCount),
		zap.Int64("elapsed_ms", res.ElapsedMS))
	return res, nil
}

type fileLinter struct {
	opts   Options
	mode   extract.Mode
	active []rules.Rule
	logger *zap.Logger
}

type fileResult struct {
	diags      []Diagnostic
	errs       []ItemError
	comments   int
	suppressed int
	scanned    bool
}

// lint は 1 ファイルを処理します。返すエラーはキャンセルのみで、それ以外は fileResult.errs に入ります。
func (l fileLinter) lint(ctx context.Context, rel string) (fileResult, error) {
	var fr fileResult
	if err := ctx.Err(); err != nil {
		return fr, err
	}
	began := time.Now()
	full := filepath.Join(l.opts.RepoDir, filepath.FromSlash(rel))
	if l.opts.MaxFileBytes > 0 {
		if fi, err := os.Stat(full); err == nil && fi.Size() > int64(l.opts.MaxFileBytes) {
			fr.errs = append(fr.errs, ItemError{File: rel, Stage: "size", Message: fmt.Sprintf("file exceeds max_file_bytes (%d > %d)", fi.Size(), l.opts.MaxFileBytes)})
			return fr, nil
		}
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// 削除済みだが追跡中のファイル
			return fr, nil
		}
		fr.errs = append(fr.errs, newItemError(rel, 0, "read", err))
		return fr, nil
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return fr, nil
	}
	info := detect.FromPathAndContent(rel, data)
	if len(l.opts.DetectLangs) > 0 && !detect.MatchesLang(info, l.opts.DetectLangs) {
		return fr, nil
	}
	lang := detect.NormalizeLangName(info.Name)
	if !extract.Supported(lang, l.mode) {
		return fr, nil
	}
	comments, err := extract.Comments(ctx, extract.Source{Path: rel, Lang: lang, Data: data}, l.mode)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fr, ctxErr
		}
		fr.errs = append(fr.errs, newItemError(rel, 0, "extract", err))
		return fr, nil
	}
	fr.scanned = true
	fr.comments = len(comments)
	for _, c := range comments {
		if err := ctx.Err(); err != nil {
			return fr, err
		}
		findings, err := rules.Evaluate(c, l.active)
		if err != nil {
			fr.errs = append(fr.errs, newItemError(rel, c.Location.Span.StartLine, "evaluate", err))
			continue
		}
		if len(findings) == 0 {
			continue
		}
		sup, hasSup := parseSuppression(c.Text)
		for _, f := range findings {
			if hasSup && sup.covers(f.RuleID) {
				fr.suppressed++
				continue
			}
			if d, ok := l.diagnostic(c, f); ok {
				fr.diags = append(fr.diags, d)
			}
		}
	}
	l.logger.Debug("file linted",
		zap.String("file", rel),
		zap.String("lang", lang),
		zap.Int("comments", fr.comments),
		zap.Int("diagnostics", len(fr.diags)),
		zap.Duration("took", time.Since(began)))
	return fr, nil
}

func (l fileLinter) diagnostic(c model.Comment, f model.Finding) (Diagnostic, bool) {
	sev := l.opts.Rules.SeverityFor(f.RuleID)
	if sev == rules.SeverityHidden {
		return Diagnostic{}, false
	}
	r, _ := rules.Lookup(f.RuleID)
	return Diagnostic{
		RuleID:      f.RuleID,
		Rule:        r.Name,
		Severity:    sev,
		Message:     r.Message(),
		File:        f.Location.File,
		Line:        f.Location.Span.StartLine,
		Col:         f.Location.Span.StartCol,
		Lang:        c.Lang,
		CommentKind: c.Kind,
		Excerpt:     textutil.Excerpt(c.Text, l.opts.ExcerptWidth),
		Span:        f.Location.Span,
		order:       rules.Position(f.RuleID),
	}, true
}

// sortDiagnostics はファイル・行・桁・ルール登録順で安定ソートします。
func sortDiagnostics(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		a, b := ds[i], ds[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.order < b.order
	})
}

func newItemError(file string, line int, stage string, err error) ItemError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return ItemError{File: file, Line: line, Stage: stage, Message: msg}
}
