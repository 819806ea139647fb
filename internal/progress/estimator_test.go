package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestEstimatorAdvanceIsSequential(t *testing.T) {
	const workers = 128
	est := NewEstimator(workers, Config{NotifyInterval: time.Nanosecond})

	var wg sync.WaitGroup
	wg.Add(workers)

	start := make(chan struct{})
	results := make(chan int, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			snap, _ := est.Advance(1)
			results <- snap.Done
		}()
	}

	close(start)
	wg.Wait()
	close(results)

	seen := make([]bool, workers)
	for r := range results {
		if r <= 0 || r > workers {
			t.Fatalf("進捗値が範囲外です: got=%d", r)
		}
		if seen[r-1] {
			t.Fatalf("進捗値が重複しました: got=%d", r)
		}
		seen[r-1] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("進捗値が欠落しています: index=%d", i+1)
		}
	}
	if got := est.Snapshot().Diagnostics; got != workers {
		t.Fatalf("診断数の合計が一致しません: got=%d", got)
	}
}

func TestEstimatorLastAdvanceAlwaysNotifies(t *testing.T) {
	est := NewEstimator(2, Config{NotifyInterval: time.Hour})
	_, _ = est.Advance(0)
	snap, notify := est.Advance(0)
	if !notify || snap.Remaining != 0 {
		t.Fatalf("最後の 1 件では通知されるべきです: notify=%t remaining=%d", notify, snap.Remaining)
	}
}

func TestCompleteFillsRemaining(t *testing.T) {
	est := NewEstimator(5, Config{})
	_, _ = est.Advance(0)
	snap := est.Complete()
	if snap.Done != 5 || snap.Remaining != 0 {
		t.Fatalf("Complete の結果が想定外です: %+v", snap)
	}
}

func TestPercentClampsTo100(t *testing.T) {
	if got := percent(5, 4); got != 100 {
		t.Fatalf("5/4 は 100%% として扱うべきです: got=%d", got)
	}
	if got := percent(0, 0); got != 0 {
		t.Fatalf("0/0 は 0%% として扱うべきです: got=%d", got)
	}
}

func TestLineObserverWritesOneLinePerSnapshot(t *testing.T) {
	var buf bytes.Buffer
	ob := NewAutoObserver(&buf)
	ob.Publish(Snapshot{Stage: StageLint, Total: 3, Done: 1, Diagnostics: 2})
	ob.Publish(Snapshot{Stage: StageLint, Total: 3, Done: 3})
	ob.Done(Snapshot{})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("2 行出力されるべきです: %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "progress stage=lint total=3 done=1 diagnostics=2") {
		t.Fatalf("出力形式が想定外です: %q", lines[0])
	}
}

func TestRenderTTYDiscoverStage(t *testing.T) {
	if got := renderTTY(Snapshot{Stage: StageDiscover}); got != "[discover] listing files..." {
		t.Fatalf("renderTTY = %q", got)
	}
	if got := renderTTY(Snapshot{Stage: StageLint, Total: 4, Done: 1}); !strings.HasPrefix(got, "[lint]  25% 1/4 files") {
		t.Fatalf("renderTTY = %q", got)
	}
}

func TestMultiObserverSkipsNil(t *testing.T) {
	if _, ok := NewMultiObserver(nil, nil).(NoopObserver); !ok {
		t.Fatal("nil のみなら NoopObserver になるべきです")
	}
	count := 0
	ob := NewMultiObserver(nil, ObserverFunc(func(Snapshot) { count++ }))
	ob.Publish(Snapshot{})
	ob.Done(Snapshot{})
	if count != 1 {
		t.Fatalf("Publish は 1 回だけ呼ばれるべきです: got=%d", count)
	}
}

func TestFormatETA(t *testing.T) {
	if got := formatETA(3723 * time.Second); got != "01:02:03" {
		t.Fatalf("formatETA = %q", got)
	}
}
