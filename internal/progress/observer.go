package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Observer は進捗スナップショットを受け取ります。
type Observer interface {
	Publish(Snapshot)
	Done(Snapshot)
}

type NoopObserver struct{}

func (NoopObserver) Publish(Snapshot) {}
func (NoopObserver) Done(Snapshot)    {}

type ObserverFunc func(Snapshot)

func (f ObserverFunc) Publish(s Snapshot) { f(s) }
func (ObserverFunc) Done(Snapshot)        {}

type multiObserver []Observer

func NewMultiObserver(obs ...Observer) Observer {
	filtered := make(multiObserver, 0, len(obs))
	for _, ob := range obs {
		if ob != nil {
			filtered = append(filtered, ob)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	return filtered
}

func (m multiObserver) Publish(s Snapshot) {
	for _, ob := range m {
		ob.Publish(s)
	}
}

func (m multiObserver) Done(s Snapshot) {
	for _, ob := range m {
		ob.Done(s)
	}
}

// ShouldShow は --progress / --no-progress と端末判定から表示の要否を決めます。
// レポートを stdout に流しているときに stderr を汚さないよう、両方が端末の場合だけ自動で有効になります。
func ShouldShow(force, no bool) bool {
	if no {
		return false
	}
	if force {
		return true
	}
	return isTTY(os.Stdout) && isTTY(os.Stderr)
}

// NewAutoObserver は w が端末なら 1 行を書き換える表示、そうでなければ 1 行ずつの表示を返します。
func NewAutoObserver(w io.Writer) Observer {
	if w == nil {
		w = os.Stderr
	}
	if f, ok := w.(*os.File); ok && isTTY(f) {
		return &ttyObserver{w: w}
	}
	return &lineObserver{w: w}
}

type ttyObserver struct {
	w  io.Writer
	mu sync.Mutex
}

func (o *ttyObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintf(o.w, "\r\033[K%s", renderTTY(s))
}

func (o *ttyObserver) Done(Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprint(o.w, "\r\033[K")
}

type lineObserver struct {
	w  io.Writer
	mu sync.Mutex
}

func (o *lineObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = fmt.Fprintln(o.w, renderLine(s))
}

func (o *lineObserver) Done(Snapshot) {}

func renderTTY(s Snapshot) string {
	if s.Stage == StageDiscover {
		return "[discover] listing files..."
	}
	rate := "--/s"
	if !s.Warmup && s.RateEMA > 0 {
		rate = fmt.Sprintf("%.1f/s", s.RateEMA)
	}
	eta := "--:--:--"
	if !s.Warmup && s.ETA > 0 {
		eta = formatETA(s.ETA)
	}
	return fmt.Sprintf("[%s] %3d%% %d/%d files, %d diagnostics, %s ETA %s", s.Stage, percent(s.Done, s.Total), s.Done, s.Total, s.Diagnostics, rate, eta)
}

func renderLine(s Snapshot) string {
	eta := -1.0
	if s.ETA > 0 {
		eta = s.ETA.Seconds()
	}
	return fmt.Sprintf("progress stage=%s total=%d done=%d diagnostics=%d rate=%.3f eta=%g warmup=%t updated_at=%s", s.Stage, s.Total, s.Done, s.Diagnostics, s.RateEMA, eta, s.Warmup, s.UpdatedAt.Format(time.RFC3339Nano))
}

func formatETA(d time.Duration) string {
	total := int(math.Round(d.Seconds()))
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	if hours > 99 {
		hours = 99
	}
	return fmt.Sprintf("%02d:%02d:%02d", hours, (total%3600)/60, total%60)
}

func percent(a, b int) int {
	if b <= 0 {
		if a <= 0 {
			return 0
		}
		return 100
	}
	if a <= 0 {
		return 0
	}
	p := a * 100 / b
	if p > 100 {
		return 100
	}
	return p
}

func isTTY(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
