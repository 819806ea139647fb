// Package watch はファイルの変更を監視し、落ち着いた変更をまとめて通知します。
package watch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 300 * time.Millisecond

// Options は Run の設定です。
//
// SkipDir は root からの相対パス（スラッシュ区切り）を受け取り、true なら
// そのディレクトリ以下を監視しません。Match が nil でなければ true を返した
// ファイルの変更だけを通知します。OnReady は監視の登録が終わった時点で 1 度呼ばれます。
type Options struct {
	Root     string
	Debounce time.Duration
	SkipDir  func(rel string) bool
	Match    func(rel string) bool
	OnReady  func(Stats)
	Logger   *zap.Logger
}

// ChangeFunc は変更のあったファイル（相対パス・ソート済み）を受け取ります。
// エラーはログに残し、監視は続けます。
type ChangeFunc func(ctx context.Context, changed []string) error

// Stats は監視中に観測したイベントの集計です。
type Stats struct {
	Events   int
	Batches  int
	Errors   int
	WatchDir int
}

type watcher struct {
	opts     Options
	fs       *fsnotify.Watcher
	logger   *zap.Logger
	onChange ChangeFunc

	mu      sync.Mutex
	pending map[string]time.Time
	stats   Stats
}

// Run は ctx がキャンセルされるまで root 以下を監視します。キャンセルによる終了は nil を返します。
func Run(ctx context.Context, opts Options, onChange ChangeFunc) (Stats, error) {
	if onChange == nil {
		return Stats{}, errors.New("watch: onChange is nil")
	}
	if opts.Root == "" {
		opts.Root = "."
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return Stats{}, err
	}
	defer fsw.Close()

	w := &watcher{
		opts:     opts,
		fs:       fsw,
		logger:   logger,
		onChange: onChange,
		pending:  make(map[string]time.Time),
	}
	if err := w.addTree(opts.Root, false); err != nil {
		return w.snapshot(), err
	}
	ready := w.snapshot()
	logger.Info("watching", zap.String("root", opts.Root), zap.Int("dirs", ready.WatchDir))
	if opts.OnReady != nil {
		opts.OnReady(ready)
	}
	w.loop(ctx)
	return w.snapshot(), nil
}

func (w *watcher) loop(ctx context.Context) {
	tick := w.opts.Debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case now := <-ticker.C:
			if changed := w.settled(now); len(changed) > 0 {
				w.flush(ctx, changed)
			}
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	rel, ok := w.rel(ev.Name)
	if !ok {
		return
	}
	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// 新しいディレクトリは配下ごと監視に加える。登録前に書かれたファイルはイベントが来ないので拾っておく
			if err := w.addTree(ev.Name, true); err != nil {
				w.logger.Warn("watch add failed", zap.String("dir", rel), zap.Error(err))
			}
			return
		}
	}
	w.enqueue(rel, ev.Op.String())
}

func (w *watcher) enqueue(rel, op string) {
	if w.opts.Match != nil && !w.opts.Match(rel) {
		return
	}
	w.logger.Debug("change", zap.String("file", rel), zap.String("op", op))
	w.mu.Lock()
	w.pending[rel] = time.Now()
	w.stats.Events++
	w.mu.Unlock()
}

// settled は最後のイベントから Debounce 以上経ったパスを取り出します。
func (w *watcher) settled(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for p, at := range w.pending {
		if now.Sub(at) >= w.opts.Debounce {
			out = append(out, p)
			delete(w.pending, p)
		}
	}
	sort.Strings(out)
	return out
}

func (w *watcher) flush(ctx context.Context, changed []string) {
	w.mu.Lock()
	w.stats.Batches++
	w.mu.Unlock()
	if err := w.onChange(ctx, changed); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Warn("change handler failed", zap.Strings("files", changed), zap.Error(err))
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
	}
}

// addTree は dir 以下のディレクトリを監視に加えます。queueFiles が true なら
// 見つかった通常ファイルも変更として積みます。
func (w *watcher) addTree(dir string, queueFiles bool) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		rel, _ := w.rel(p)
		if !d.IsDir() {
			if queueFiles && d.Type().IsRegular() {
				w.enqueue(rel, "CREATE")
			}
			return nil
		}
		if d.Name() == ".git" || (rel != "." && w.opts.SkipDir != nil && w.opts.SkipDir(rel)) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			return err
		}
		w.mu.Lock()
		w.stats.WatchDir++
		w.mu.Unlock()
		return nil
	})
}

func (w *watcher) rel(p string) (string, bool) {
	r, err := filepath.Rel(w.opts.Root, p)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(r), true
}

func (w *watcher) snapshot() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}
