package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phyten/jcomment/internal/engine"
)

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func stringsPtr(values ...string) *[]string {
	copied := append([]string(nil), values...)
	return &copied
}

func TestMergeEnginePrecedence(t *testing.T) {
	base := EngineSettings{Detect: "auto", Jobs: 2, Paths: []string{"base"}, ExcludeTypical: true, Output: "table"}

	fileCfg := EngineConfig{Detect: strPtr("parse"), ExcludeTypical: boolPtr(false), Paths: stringsPtr("file"), Output: strPtr("json")}
	envCfg := EngineConfig{Paths: stringsPtr("env"), FailOn: strPtr("error")}
	flagCfg := EngineConfig{Paths: stringsPtr("flag"), Jobs: intPtr(8), Detect: strPtr(" style ")}

	merged := MergeEngine(base, fileCfg, envCfg, flagCfg)

	assert.Equal(t, "style", merged.Detect)
	assert.Equal(t, []string{"flag"}, merged.Paths)
	assert.False(t, merged.ExcludeTypical)
	assert.Equal(t, 8, merged.Jobs)
	assert.Equal(t, "json", merged.Output)
	assert.Equal(t, "error", merged.FailOn)
	assert.Equal(t, "auto", merged.Color, "空の color は auto になる")
	assert.Equal(t, "auto", merged.Progress)
}

func TestMergeEngineExplicitEmptyList(t *testing.T) {
	base := EngineSettings{Excludes: []string{"vendor"}}
	merged := MergeEngine(base, EngineConfig{Excludes: stringsPtr()})
	assert.NotNil(t, merged.Excludes)
	assert.Empty(t, merged.Excludes)
}

func TestMergeRules(t *testing.T) {
	fileSev := map[string]string{"wide-space": "error", "SAJ0001": "info"}
	flagSev := map[string]string{"saj0004": "hidden"}

	merged := MergeRules(RuleSettings{},
		RulesConfig{Enable: stringsPtr("SAJ0008"), Severity: &fileSev},
		RulesConfig{Disable: stringsPtr("SAJ0002"), EnableAll: boolPtr(true)},
		RulesConfig{Severity: &flagSev},
	)

	assert.True(t, merged.EnableAll)
	assert.Equal(t, []string{"SAJ0008"}, merged.Enable)
	assert.Equal(t, []string{"SAJ0002"}, merged.Disable)
	assert.Equal(t, map[string]string{"SAJ0001": "info", "SAJ0004": "hidden"}, merged.Severity)
}

func TestMergeRulesDoesNotMutateBase(t *testing.T) {
	base := RuleSettings{Severity: map[string]string{"SAJ0001": "error"}}
	sev := map[string]string{"SAJ0001": "info"}
	_ = MergeRules(base, RulesConfig{Severity: &sev})
	assert.Equal(t, "error", base.Severity["SAJ0001"])
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		"JCOMMENT_DETECT":          "style",
		"JCOMMENT_PATH":            "src,cmd",
		"JCOMMENT_PATH_REGEX":      `.*\.go$`,
		"JCOMMENT_EXCLUDE":         "vendor, dist",
		"JCOMMENT_EXCLUDE_TYPICAL": "no",
		"JCOMMENT_LANG":            "go,py",
		"JCOMMENT_JOBS":            "128",
		"JCOMMENT_MAX_FILE_BYTES":  "8192",
		"JCOMMENT_NO_GIT":          "1",
		"JCOMMENT_EXCERPT_WIDTH":   "40",
		"JCOMMENT_OUTPUT":          "sarif",
		"JCOMMENT_COLOR":           "never",
		"JCOMMENT_FAIL_ON":         "error",
		"JCOMMENT_PROGRESS":        "off",
		"JCOMMENT_ENABLE_ALL":      "true",
		"JCOMMENT_ENABLE":          "SAJ0008,wide-question",
		"JCOMMENT_DISABLE":         "SAJ0001",
		"JCOMMENT_SEVERITY":        "SAJ0002=error,wide-space=info",
	}
	cfg, err := FromEnv(func(key string) string { return env[key] })
	require.NoError(t, err)

	e := cfg.Engine
	require.NotNil(t, e.Detect)
	assert.Equal(t, "style", *e.Detect)
	assert.Equal(t, []string{"src", "cmd"}, *e.Paths)
	assert.Equal(t, []string{`.*\.go$`}, *e.PathRegex)
	assert.Equal(t, []string{"vendor", "dist"}, *e.Excludes)
	assert.False(t, *e.ExcludeTypical)
	assert.Equal(t, []string{"go", "py"}, *e.DetectLangs)
	assert.Equal(t, 128, *e.Jobs, "上限の検証は NormalizeAndValidate で行う")
	assert.Equal(t, 8192, *e.MaxFileBytes)
	assert.True(t, *e.NoGit)
	assert.Equal(t, 40, *e.ExcerptWidth)
	assert.Equal(t, "sarif", *e.Output)
	assert.Equal(t, "never", *e.Color)
	assert.Equal(t, "error", *e.FailOn)
	assert.Equal(t, "never", *e.Progress)

	r := cfg.Rules
	assert.True(t, *r.EnableAll)
	assert.Equal(t, []string{"SAJ0008", "wide-question"}, *r.Enable)
	assert.Equal(t, []string{"SAJ0001"}, *r.Disable)
	assert.Equal(t, map[string]string{"SAJ0002": "error", "wide-space": "info"}, *r.Severity)
}

func TestFromEnvJoinsErrors(t *testing.T) {
	env := map[string]string{
		"JCOMMENT_JOBS":     "many",
		"JCOMMENT_NO_GIT":   "maybe",
		"JCOMMENT_SEVERITY": "SAJ0002",
	}
	_, err := FromEnv(func(key string) string { return env[key] })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JCOMMENT_JOBS")
	assert.Contains(t, err.Error(), "JCOMMENT_NO_GIT")
	assert.Contains(t, err.Error(), "RULE=LEVEL")
}

func TestFromEnvNilGetenv(t *testing.T) {
	cfg, err := FromEnv(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		".jcomment.yaml": `
detect: parse
exclude:
  - vendor
  - dist
jobs: 4
progress: false
rules:
  enable: [SAJ0008]
  disable: wide-alphabet
  severity:
    SAJ0004: error
`,
		".jcomment.toml": `
detect = "parse"
exclude = ["vendor", "dist"]
jobs = 4
progress = false

[rules]
enable = ["SAJ0008"]
disable = "wide-alphabet"

[rules.severity]
SAJ0004 = "error"
`,
		".jcomment.json": `{
  "engine": {"detect": "parse", "exclude": "vendor,dist", "jobs": 4, "progress": "never"},
  "rules": {"enable": ["SAJ0008"], "disable": ["wide-alphabet"], "severity": ["SAJ0004=error"]}
}`,
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			cfg, err := Load(path)
			require.NoError(t, err)

			require.NotNil(t, cfg.Engine.Detect)
			assert.Equal(t, "parse", *cfg.Engine.Detect)
			assert.Equal(t, []string{"vendor", "dist"}, *cfg.Engine.Excludes)
			assert.Equal(t, 4, *cfg.Engine.Jobs)
			assert.Equal(t, "never", *cfg.Engine.Progress)
			assert.Equal(t, []string{"SAJ0008"}, *cfg.Rules.Enable)
			assert.Equal(t, []string{"wide-alphabet"}, *cfg.Rules.Disable)
			assert.Equal(t, map[string]string{"SAJ0004": "error"}, *cfg.Rules.Severity)
		})
	}
}

func TestLoadKeyAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".jcomment.yaml")
	body := "Max-Bytes: 100\nformat: md\nDetect_Langs: go\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, *cfg.Engine.MaxFileBytes)
	assert.Equal(t, "md", *cfg.Engine.Output)
	assert.Equal(t, []string{"go"}, *cfg.Engine.DetectLangs)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]struct {
		name string
		body string
		want string
	}{
		"未知のキー":        {".jcomment.yaml", "unknown: 1\n", "unknown config key: unknown"},
		"rules の未知のキー": {".jcomment.yaml", "rules:\n  foo: 1\n", "unknown rules key: foo"},
		"型の誤り":         {".jcomment.yaml", "jobs: [1]\n", "expected integer for jobs"},
		"不正な progress":  {".jcomment.yaml", "progress: sometimes\n", "invalid value for progress"},
		"壊れた JSON":      {".jcomment.json", "{", "parse"},
		"未対応の拡張子":      {".jcomment.ini", "jobs=1", "unsupported config extension"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tc.name)
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("  ")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestFindOrder(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo", "sub")
	xdg := filepath.Join(root, "xdg")
	home := filepath.Join(root, "home")
	require.NoError(t, os.MkdirAll(repo, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "jcomment"), 0o755))
	require.NoError(t, os.MkdirAll(home, 0o755))

	write := func(p string) {
		require.NoError(t, os.WriteFile(p, []byte("jobs: 1\n"), 0o644))
	}

	path, origin, err := Find(repo, "", xdg, home)
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, OriginNone, origin)

	homeCfg := filepath.Join(home, ".jcomment.toml")
	write(homeCfg)
	path, origin, err = Find(repo, "", xdg, home)
	require.NoError(t, err)
	assert.Equal(t, homeCfg, path)
	assert.Equal(t, OriginHome, origin)

	xdgCfg := filepath.Join(xdg, "jcomment", "config.yaml")
	write(xdgCfg)
	path, origin, err = Find(repo, "", xdg, home)
	require.NoError(t, err)
	assert.Equal(t, xdgCfg, path)
	assert.Equal(t, OriginXDG, origin)

	// 親ディレクトリのファイルも見つかる
	repoCfg := filepath.Join(root, "repo", ".jcomment.yml")
	write(repoCfg)
	path, origin, err = Find(repo, "", xdg, home)
	require.NoError(t, err)
	assert.Equal(t, repoCfg, path)
	assert.Equal(t, OriginRepo, origin)

	explicit := filepath.Join(root, "explicit.json")
	require.NoError(t, os.WriteFile(explicit, []byte("{}"), 0o644))
	path, origin, err = Find(repo, explicit, xdg, home)
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
	assert.Equal(t, OriginExplicit, origin)
}

func TestFindXDGFallsBackToHomeConfig(t *testing.T) {
	home := t.TempDir()
	cfgDir := filepath.Join(home, ".config", "jcomment")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	want := filepath.Join(cfgDir, "config.json")
	require.NoError(t, os.WriteFile(want, []byte("{}"), 0o644))

	path, origin, err := Find(t.TempDir(), "", "", home)
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.Equal(t, OriginXDG, origin)
}

func TestFindExplicitErrors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := Find(dir, filepath.Join(dir, "missing.yaml"), "", dir)
	require.Error(t, err)

	_, _, err = Find(dir, dir, "", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestNormalizeEngine(t *testing.T) {
	got, err := NormalizeEngine(EngineSettings{Output: "MD", Color: "", FailOn: "never", Progress: "yes"})
	require.NoError(t, err)
	assert.Equal(t, "markdown", got.Output)
	assert.Equal(t, "auto", got.Color)
	assert.Equal(t, "none", got.FailOn)
	assert.Equal(t, "always", got.Progress)

	for name, in := range map[string]EngineSettings{
		"output":   {Output: "xml"},
		"color":    {Color: "rainbow"},
		"fail_on":  {FailOn: "fatal"},
		"progress": {Progress: "sometimes"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NormalizeEngine(in)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeRules(t *testing.T) {
	got, err := NormalizeRules(RuleSettings{
		Enable:   []string{"wide-question"},
		Severity: map[string]string{"wide-space": "WARN", "saj0002": "error"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"SAJ0004": "warning", "SAJ0002": "error"}, got.Severity)

	_, err = NormalizeRules(RuleSettings{Disable: []string{"SAJ9999"}})
	assert.ErrorContains(t, err, "unknown rule: SAJ9999")

	_, err = NormalizeRules(RuleSettings{Severity: map[string]string{"SAJ0001": "fatal"}})
	assert.ErrorContains(t, err, "invalid severity")
}

func TestRuleSettingsToRules(t *testing.T) {
	s, err := RuleSettings{EnableAll: true, Disable: []string{"SAJ0001"}, Severity: map[string]string{"wide-alphabet": "error"}}.ToRules()
	require.NoError(t, err)
	assert.True(t, s.EnableAll)
	assert.Equal(t, []string{"SAJ0001"}, s.Disable)
	assert.EqualValues(t, "error", s.SeverityFor("SAJ0002"))
	assert.EqualValues(t, "warning", s.SeverityFor("SAJ0003"))
}

func TestEngineSettingsRoundTrip(t *testing.T) {
	opts := engine.Options{DetectMode: "style", Jobs: 3, RepoDir: "/repo", Paths: []string{"src"}, NoGit: true, ExcerptWidth: 30}
	s := EngineSettingsFromOptions(opts)
	assert.Equal(t, "table", s.Output)
	assert.Equal(t, "warning", s.FailOn)

	var out engine.Options
	s.ApplyToOptions(&out)
	assert.Equal(t, opts.DetectMode, out.DetectMode)
	assert.Equal(t, opts.Jobs, out.Jobs)
	assert.Equal(t, opts.RepoDir, out.RepoDir)
	assert.Equal(t, opts.Paths, out.Paths)
	assert.True(t, out.NoGit)
	assert.Equal(t, 30, out.ExcerptWidth)

	s.ApplyToOptions(nil)
}
