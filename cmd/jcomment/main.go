// Command jcomment はソースコードのコメントに含まれる全角・半角文字の使い分けを検査します。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version はリリース時に -ldflags "-X main.version=..." で埋め込みます。
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	os.Exit(code)
}
