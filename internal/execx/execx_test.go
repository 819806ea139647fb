package execx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeRunner struct {
	stdout, stderr string
	err            error
}

func (f fakeRunner) Run(context.Context, string, string, ...string) ([]byte, []byte, error) {
	return []byte(f.stdout), []byte(f.stderr), f.err
}

func TestOutputSuccess(t *testing.T) {
	out, err := Output(context.Background(), fakeRunner{stdout: "ok"}, "", "git", "status")
	if err != nil || string(out) != "ok" {
		t.Fatalf("Output = %q, %v", out, err)
	}
}

func TestOutputIncludesFirstStderrLine(t *testing.T) {
	base := errors.New("exit status 128")
	_, err := Output(context.Background(), fakeRunner{stderr: "fatal: not a git repository\nhint: x", err: base}, "", "git", "-C", "rev-parse")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, base) {
		t.Fatalf("error should wrap the runner error: %v", err)
	}
	if !strings.Contains(err.Error(), "fatal: not a git repository") || strings.Contains(err.Error(), "hint") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestOutputCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Output(ctx, fakeRunner{err: errors.New("killed")}, "", "git", "ls-files")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
