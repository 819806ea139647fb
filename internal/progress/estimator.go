package progress

import (
	"math"
	"sync"
	"time"
)

type Stage string

const (
	StageDiscover Stage = "discover"
	StageLint     Stage = "lint"
)

// Snapshot はある時点での進捗です。
type Snapshot struct {
	Stage       Stage         `json:"stage"`
	Total       int           `json:"total"`
	Done        int           `json:"done"`
	Remaining   int           `json:"remaining"`
	Diagnostics int           `json:"diagnostics"`
	RateEMA     float64       `json:"rate_per_sec"`
	ETA         time.Duration `json:"eta"`
	Warmup      bool          `json:"warmup"`
	StartedAt   time.Time     `json:"started_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Config struct {
	Alpha          float64
	WarmupSamples  int
	NotifyInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Alpha:          0.2,
		WarmupSamples:  10,
		NotifyInterval: 200 * time.Millisecond,
	}
}

// Estimator は処理済みファイル数から指数移動平均で処理速度と残り時間を見積もります。
// 複数のワーカーから同時に呼び出せます。
type Estimator struct {
	mu         sync.Mutex
	cfg        Config
	stage      Stage
	start      time.Time
	lastUpdate time.Time
	lastNotify time.Time
	total      int
	done       int
	diags      int
	ema        float64
}

func NewEstimator(total int, cfg Config) *Estimator {
	base := DefaultConfig()
	if cfg.Alpha > 0 && cfg.Alpha <= 1 {
		base.Alpha = cfg.Alpha
	}
	if cfg.WarmupSamples > 0 {
		base.WarmupSamples = cfg.WarmupSamples
	}
	if cfg.NotifyInterval > 0 {
		base.NotifyInterval = cfg.NotifyInterval
	}
	now := time.Now()
	return &Estimator{cfg: base, stage: StageLint, start: now, lastUpdate: now, total: total}
}

// Advance は 1 ファイル分の完了を記録します。notify が true のときだけ表示を更新すれば十分です。
func (e *Estimator) Advance(diagnostics int) (snap Snapshot, notify bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := time.Now()
	if now.Before(e.lastUpdate) {
		now = e.lastUpdate
	}
	dt := now.Sub(e.lastUpdate).Seconds()
	if dt <= 0 {
		dt = 1e-6
	}
	e.done++
	e.diags += diagnostics
	instant := 1 / dt
	if math.IsNaN(instant) || math.IsInf(instant, 0) {
		instant = 0
	}
	if e.ema == 0 {
		e.ema = instant
	} else {
		e.ema = e.cfg.Alpha*instant + (1-e.cfg.Alpha)*e.ema
	}
	e.lastUpdate = now
	snap = e.snapshotLocked(now)
	notify = now.Sub(e.lastNotify) >= e.cfg.NotifyInterval || snap.Remaining == 0
	if notify {
		e.lastNotify = now
	}
	return snap, notify
}

func (e *Estimator) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(time.Now())
}

// Complete は残りを完了扱いにした最終スナップショットを返します。
func (e *Estimator) Complete() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done < e.total {
		e.done = e.total
	}
	return e.snapshotLocked(time.Now())
}

func (e *Estimator) snapshotLocked(now time.Time) Snapshot {
	remain := e.total - e.done
	if remain < 0 {
		remain = 0
	}
	warm := e.done >= e.cfg.WarmupSamples
	var eta time.Duration
	if warm && remain > 0 && e.ema > 0 {
		eta = durationFrom(float64(remain), e.ema)
	}
	return Snapshot{
		Stage:       e.stage,
		Total:       e.total,
		Done:        e.done,
		Remaining:   remain,
		Diagnostics: e.diags,
		RateEMA:     e.ema,
		ETA:         eta,
		Warmup:      !warm,
		StartedAt:   e.start,
		UpdatedAt:   now,
	}
}

func durationFrom(count, rate float64) time.Duration {
	if rate <= 0 {
		return 0
	}
	seconds := count / rate
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0
	}
	if seconds > float64(math.MaxInt64/int64(time.Second)) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(seconds * float64(time.Second))
}
