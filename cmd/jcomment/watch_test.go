package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, b *syncBuffer, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), substr) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in %q", substr, b.String())
}

func TestWatchは変更されたファイルを検査し直す(t *testing.T) {
	root := writeTree(t, map[string]string{"a.go": violatingGo})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	env := testEnv(t)
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"watch", "--repo", root, "--no-git", "-o", "ndjson", "--debounce", "50ms"}, &stdout, &stderr, env)
	}()

	waitFor(t, &stdout, `"file":"a.go"`)

	if err := os.WriteFile(filepath.Join(root, "b.go"), []byte("package a\n// ｶﾅ\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// 言語を判定できないファイルは無視される
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ＡＢＣ"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, &stdout, `"file":"b.go"`)

	cancel()
	select {
	case code := <-done:
		if code != exitOK {
			t.Fatalf("code = %d, stderr=%q", code, stderr.String())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	if strings.Contains(stdout.String(), "notes.txt") {
		t.Fatalf("unknown-language file should not be linted: %q", stdout.String())
	}
}

func TestExistingFiles(t *testing.T) {
	root := writeTree(t, map[string]string{"a.go": "", "dir/b.go": ""})
	got := existingFiles(root, []string{"a.go", "gone.go", "dir", "dir/b.go"})
	if strings.Join(got, ",") != "a.go,dir/b.go" {
		t.Fatalf("existingFiles = %v", got)
	}
}
