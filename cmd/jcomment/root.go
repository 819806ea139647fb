package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	exitOK         = 0
	exitViolations = 1
	exitUsage      = 2
)

type rootOptions struct {
	configPath string
	verbose    bool
	color      string
}

// app は 1 回の実行で共有する入出力とロガーです。
type app struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	root   rootOptions
	logger *zap.Logger
}

// exitError は終了コードを伝えます。err が nil なら何も表示しません。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	a := &app{stdout: stdout, stderr: stderr, getenv: getenv, logger: zap.NewNop()}
	cmd := a.newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	_ = a.logger.Sync()
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "jcomment: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "jcomment: %v\n", err)
	return exitUsage
}

func (a *app) newRootCmd() *cobra.Command {
	flags := &scanFlags{}
	root := &cobra.Command{
		Use:           "jcomment [paths...]",
		Short:         "コメント中の全角・半角文字の使い分けを検査します",
		Long:          "jcomment はソースコードのコメントを抽出し、半角カナや全角英数字など\n使い分けのルールに反する文字を報告します。\n\nサブコマンドを省略すると scan と同じ動作になります。",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(a.stderr, a.root.verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, flags, args)
		},
	}
	root.SetVersionTemplate("jcomment version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.root.configPath, "config", "", "設定ファイルのパス（既定: 自動検出、JCOMMENT_CONFIG も可）")
	pf.BoolVarP(&a.root.verbose, "verbose", "v", false, "デバッグログを標準エラーに出す")
	pf.StringVar(&a.root.color, "color", "auto", "色付け: auto|always|never")
	bindScanFlags(root, flags)

	root.AddCommand(
		a.newScanCmd(),
		a.newRulesCmd(),
		a.newWatchCmd(),
		a.newVersionCmd(),
	)
	return root
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "バージョンを表示します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.stdout, "jcomment version %s\n", version)
			return err
		},
	}
}

// newLogger は本番向けの設定をもとに、w へ console 形式で書くロガーを作ります。
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	enc := cfg.EncoderConfig
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), cfg.Level)
	return zap.New(core)
}

func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}
