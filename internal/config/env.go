package config

import (
	"errors"
	"math"
	"strings"

	engineopts "github.com/phyten/jcomment/internal/engine/opts"
)

// EnvPrefix は環境変数の接頭辞です。
const EnvPrefix = "JCOMMENT_"

// FromEnv は JCOMMENT_* 環境変数からレイヤーを組み立てます。不正な値はまとめてエラーにします。
func FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var cfg Config
	var errs []error

	lookup := func(name string) string {
		return strings.TrimSpace(getenv(EnvPrefix + name))
	}
	setString := func(target **string, name string) {
		raw := lookup(name)
		if raw == "" {
			return
		}
		*target = &raw
	}
	setList := func(target **[]string, name string) {
		raw := lookup(name)
		if raw == "" {
			return
		}
		list := engineopts.SplitMulti([]string{raw})
		if list == nil {
			list = []string{}
		}
		*target = &list
	}
	setBool := func(target **bool, name string) {
		raw := lookup(name)
		if raw == "" {
			return
		}
		v, err := engineopts.ParseBool(raw, EnvPrefix+name)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}
	setInt := func(target **int, name string) {
		raw := lookup(name)
		if raw == "" {
			return
		}
		// 上限は NormalizeAndValidate に任せ、どの入力経路でも同じエラーになるようにする
		v, err := engineopts.ParseIntInRange(raw, EnvPrefix+name, 0, math.MaxInt)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*target = &v
	}

	e := &cfg.Engine
	setString(&e.Detect, "DETECT")
	setList(&e.Paths, "PATH")
	setList(&e.Excludes, "EXCLUDE")
	setList(&e.PathRegex, "PATH_REGEX")
	setList(&e.DetectLangs, "LANG")
	setBool(&e.ExcludeTypical, "EXCLUDE_TYPICAL")
	setInt(&e.Jobs, "JOBS")
	setString(&e.Repo, "REPO")
	setInt(&e.MaxFileBytes, "MAX_FILE_BYTES")
	setBool(&e.NoGit, "NO_GIT")
	setInt(&e.ExcerptWidth, "EXCERPT_WIDTH")
	setString(&e.Output, "OUTPUT")
	setString(&e.Color, "COLOR")
	setString(&e.FailOn, "FAIL_ON")
	if raw := lookup("PROGRESS"); raw != "" {
		v, err := CanonicalizeProgress(raw)
		if err != nil {
			errs = append(errs, err)
		} else {
			e.Progress = &v
		}
	}

	r := &cfg.Rules
	setBool(&r.EnableAll, "ENABLE_ALL")
	setList(&r.Enable, "ENABLE")
	setList(&r.Disable, "DISABLE")
	if raw := lookup("SEVERITY"); raw != "" {
		m, err := engineopts.ParseSeverityPairs([]string{raw})
		if err != nil {
			errs = append(errs, err)
		} else {
			r.Severity = &m
		}
	}

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	return cfg, nil
}
