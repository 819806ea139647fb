package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phyten/jcomment/internal/config"
	"github.com/phyten/jcomment/internal/engine"
	engineopts "github.com/phyten/jcomment/internal/engine/opts"
	"github.com/phyten/jcomment/internal/output"
	"github.com/phyten/jcomment/internal/progress"
	"github.com/phyten/jcomment/internal/repolink"
	"github.com/phyten/jcomment/internal/rules"
	"github.com/phyten/jcomment/internal/termcolor"
)

// scanFlags は scan 系のフラグです。設定レイヤーに載せるのは明示されたものだけです。
type scanFlags struct {
	detect       string
	paths        []string
	excludes     []string
	pathRegex    []string
	langs        []string
	noTypical    bool
	jobs         int
	repo         string
	maxFileBytes int
	noGit        bool
	excerptWidth int
	output       string
	failOn       string
	progress     bool
	noProgress   bool
	enable       []string
	disable      []string
	all          bool
	severity     []string

	fields      string
	sort        string
	withExcerpt bool
	withLink    bool
	summary     bool
}

func bindScanFlags(cmd *cobra.Command, f *scanFlags) {
	fl := cmd.Flags()
	fl.StringVar(&f.detect, "detect", "auto", "コメントの抽出方法: auto|parse|style")
	fl.StringSliceVarP(&f.paths, "path", "p", nil, "対象パス（glob 可・複数指定可）")
	fl.StringSliceVarP(&f.excludes, "exclude", "x", nil, "除外パス（glob・複数指定可）")
	fl.StringArrayVar(&f.pathRegex, "path-regex", nil, "対象パスの正規表現（複数指定は OR）")
	fl.StringSliceVar(&f.langs, "lang", nil, "対象言語を限定（例: go,python）")
	fl.BoolVar(&f.noTypical, "no-typical-excludes", false, "vendor や node_modules などの既定の除外を無効にする")
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "並列数（既定: CPU 数、最大 64）")
	fl.StringVar(&f.repo, "repo", ".", "走査するディレクトリ")
	fl.IntVar(&f.maxFileBytes, "max-file-bytes", 0, "これより大きいファイルを読まない（0 は無制限）")
	fl.BoolVar(&f.noGit, "no-git", false, "git ls-files を使わずディレクトリを辿る")
	fl.IntVar(&f.excerptWidth, "excerpt-width", 60, "抜粋の最大表示幅")
	fl.StringVarP(&f.output, "output", "o", "table", "出力形式: "+strings.Join(engineopts.OutputFormats, "|"))
	fl.StringVar(&f.failOn, "fail-on", "warning", "終了コード 1 にする重大度: error|warning|info|none")
	fl.BoolVar(&f.progress, "progress", false, "パイプ先でも進捗を表示する")
	fl.BoolVar(&f.noProgress, "no-progress", false, "進捗を表示しない")
	fl.StringSliceVar(&f.enable, "enable", nil, "有効にするルール（id または名前）")
	fl.StringSliceVar(&f.disable, "disable", nil, "無効にするルール（id または名前）")
	fl.BoolVar(&f.all, "all", false, "非推奨以外のすべてのルールを有効にする")
	fl.StringArrayVar(&f.severity, "severity", nil, "ルールの重大度を上書き（例: SAJ0002=error）")
	fl.StringVar(&f.fields, "fields", "", "表形式で出す列（カンマ区切り）")
	fl.StringVar(&f.sort, "sort", "", "並び順（例: -severity,location）")
	fl.BoolVar(&f.withExcerpt, "with-excerpt", false, "コメントの抜粋列を加える")
	fl.BoolVar(&f.withLink, "with-link", false, "git のリモートから各診断へのリンク（URL 列）を作る")
	fl.BoolVar(&f.summary, "summary", false, "表の後に集計を出す")
}

func (a *app) newScanCmd() *cobra.Command {
	flags := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "コメントを検査して違反を報告します",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, flags, args)
		},
	}
	bindScanFlags(cmd, flags)
	return cmd
}

// layer は明示されたフラグと位置引数だけを設定レイヤーにします。
func (f *scanFlags) layer(cmd *cobra.Command, color string, args []string) (config.Config, error) {
	var cfg config.Config
	fl := cmd.Flags()
	changed := fl.Changed
	e := &cfg.Engine

	if changed("detect") {
		e.Detect = &f.detect
	}
	if changed("path") || len(args) > 0 {
		paths := engineopts.SplitMulti(append(append([]string{}, f.paths...), args...))
		e.Paths = &paths
	}
	if changed("exclude") {
		ex := engineopts.SplitMulti(f.excludes)
		e.Excludes = &ex
	}
	if changed("path-regex") {
		rx := append([]string{}, f.pathRegex...)
		e.PathRegex = &rx
	}
	if changed("lang") {
		langs := engineopts.SplitMulti(f.langs)
		e.DetectLangs = &langs
	}
	if changed("no-typical-excludes") {
		typical := !f.noTypical
		e.ExcludeTypical = &typical
	}
	if changed("jobs") {
		e.Jobs = &f.jobs
	}
	if changed("repo") {
		e.Repo = &f.repo
	}
	if changed("max-file-bytes") {
		e.MaxFileBytes = &f.maxFileBytes
	}
	if changed("no-git") {
		e.NoGit = &f.noGit
	}
	if changed("excerpt-width") {
		e.ExcerptWidth = &f.excerptWidth
	}
	if changed("output") {
		e.Output = &f.output
	}
	if changed("color") {
		e.Color = &color
	}
	if changed("fail-on") {
		e.FailOn = &f.failOn
	}
	// 両方指定されたら表示しない側を優先する
	switch {
	case changed("no-progress") && f.noProgress:
		never := "never"
		e.Progress = &never
	case changed("progress") && f.progress:
		always := "always"
		e.Progress = &always
	}

	r := &cfg.Rules
	if changed("all") {
		r.EnableAll = &f.all
	}
	if changed("enable") {
		list := engineopts.SplitMulti(f.enable)
		r.Enable = &list
	}
	if changed("disable") {
		list := engineopts.SplitMulti(f.disable)
		r.Disable = &list
	}
	if changed("severity") {
		sev, err := engineopts.ParseSeverityPairs(f.severity)
		if err != nil {
			return config.Config{}, err
		}
		r.Severity = &sev
	}
	return cfg, nil
}

// resolved は全レイヤーを畳み込んだ結果です。
type resolved struct {
	engine config.EngineSettings
	rules  rules.Settings
}

// resolve は 既定値 → 設定ファイル → 環境変数 → フラグ の順に重ねます。
func (a *app) resolve(flagLayer config.Config) (resolved, error) {
	envLayer, err := config.FromEnv(a.getenv)
	if err != nil {
		return resolved{}, err
	}

	// 設定ファイルの探索はリポジトリの位置に依存するので、先に env と flag だけで決める
	repo := config.MergeEngine(config.EngineSettings{Repo: "."}, envLayer.Engine, flagLayer.Engine).Repo
	explicit := a.root.configPath
	if explicit == "" {
		explicit = a.getenv("JCOMMENT_CONFIG")
	}
	path, origin, err := config.Find(repo, explicit, a.getenv("XDG_CONFIG_HOME"), a.getenv("HOME"))
	if err != nil {
		return resolved{}, fmt.Errorf("config: %w", err)
	}
	var fileLayer config.Config
	if path != "" {
		fileLayer, err = config.Load(path)
		if err != nil {
			return resolved{}, err
		}
		a.logger.Debug("config loaded", zap.String("path", path), zap.String("origin", string(origin)))
	}

	base := config.EngineSettingsFromOptions(engineopts.Defaults("."))
	eng := config.MergeEngine(base, fileLayer.Engine, envLayer.Engine, flagLayer.Engine)
	eng, err = config.NormalizeEngine(eng)
	if err != nil {
		return resolved{}, err
	}
	rs := config.MergeRules(config.RuleSettings{}, fileLayer.Rules, envLayer.Rules, flagLayer.Rules)
	rs, err = config.NormalizeRules(rs)
	if err != nil {
		return resolved{}, err
	}
	ruleSettings, err := rs.ToRules()
	if err != nil {
		return resolved{}, err
	}
	return resolved{engine: eng, rules: ruleSettings}, nil
}

// engineOptions は resolved から検証済みの engine.Options を作ります。
func (a *app) engineOptions(r resolved) (engine.Options, error) {
	opts := engineopts.Defaults(".")
	r.engine.ApplyToOptions(&opts)
	opts.Rules = r.rules
	if err := engineopts.NormalizeAndValidate(&opts); err != nil {
		return engine.Options{}, err
	}
	opts.Logger = a.logger
	return opts, nil
}

func (a *app) runScan(cmd *cobra.Command, f *scanFlags, args []string) error {
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
	if progress.ShouldShow(r.engine.Progress == "always", r.engine.Progress == "never") {
		opts.ProgressObserver = progress.NewAutoObserver(a.stderr)
	}

	res, err := engine.Run(cmd.Context(), opts)
	if err != nil {
		return usageError(err)
	}
	if err := a.report(cmd.Context(), opts, res, outOpts, sortSpec, f.withLink); err != nil {
		return err
	}
	return failOnExit(res, r.engine.FailOn)
}

// report は並べ替えとリンク付けをしてから結果を書き出します。
// リンクを作れない（git 管理外・リモートなし）場合は警告だけ出して続けます。
func (a *app) report(ctx context.Context, opts engine.Options, res *engine.Result, outOpts output.Options, spec output.SortSpec, withLink bool) error {
	output.ApplySort(res.Diagnostics, spec)
	if withLink || outOpts.Fields.Has("url") {
		linker, err := repolink.Detect(ctx, opts.RepoDir, repolink.Options{
			RemoteName: a.getenv("JCOMMENT_LINK_REMOTE"),
			Scheme:     a.getenv("JCOMMENT_LINK_SCHEME"),
			Runner:     opts.Runner,
		})
		if err != nil {
			a.logger.Warn("links unavailable", zap.Error(err))
		} else {
			linker.Annotate(res.Diagnostics)
			outOpts.Provenance = &output.Provenance{RepositoryURI: linker.Remote.WebURL(), RevisionID: linker.Revision}
		}
	}
	return output.Write(a.stdout, res, outOpts)
}

func (a *app) outputOptions(eng config.EngineSettings, f *scanFlags) (output.Options, output.SortSpec, error) {
	spec, err := output.ParseSortSpec(f.sort)
	if err != nil {
		return output.Options{}, output.SortSpec{}, err
	}
	sel, err := output.ResolveFields(f.fields, f.withExcerpt)
	if err != nil {
		return output.Options{}, output.SortSpec{}, err
	}
	if f.withLink && strings.TrimSpace(f.fields) == "" {
		sel = sel.Append("url")
	}
	return output.Options{
		Format:      eng.Output,
		Fields:      sel,
		Table:       a.tableOptions(eng.Color),
		Summary:     f.summary,
		ToolVersion: version,
	}, spec, nil
}

// tableOptions は --color と端末・環境変数から色付けの可否を決めます。
func (a *app) tableOptions(color string) output.TableOptions {
	env := termcolor.Env(a.getenv)
	mode, err := termcolor.ParseMode(color)
	if err != nil {
		mode = termcolor.ModeAuto
	}
	return output.TableOptions{
		Color:   termcolor.Resolve(mode, stdoutFile(a.stdout), env),
		Scheme:  termcolor.DetectScheme(env),
		Profile: termcolor.DetectProfile(env),
	}
}

func stdoutFile(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}

// failOnExit は failOn 以上の診断があれば終了コード 1 を返します。
func failOnExit(res *engine.Result, failOn string) error {
	if failOn == "none" {
		return nil
	}
	sev, err := rules.ParseSeverity(failOn)
	if err != nil {
		return usageError(err)
	}
	if res.CountAtLeast(sev) > 0 {
		return &exitError{code: exitViolations}
	}
	return nil
}
