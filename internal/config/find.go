package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Origin は設定ファイルがどこで見つかったかを表します。
type Origin string

const (
	OriginNone     Origin = ""
	OriginExplicit Origin = "explicit"
	OriginRepo     Origin = "repo"
	OriginXDG      Origin = "xdg"
	OriginHome     Origin = "home"
)

var (
	configFilenames = []string{
		".jcomment.yaml",
		".jcomment.yml",
		".jcomment.toml",
		".jcomment.json",
	}
	xdgFilenames = []string{
		"config.yaml",
		"config.yml",
		"config.toml",
		"config.json",
	}
)

// Find は設定ファイルを次の順で探します。
//
//  1. explicit（--config / JCOMMENT_CONFIG）。存在しなければエラー
//  2. repoDir から親方向へ .jcomment.*
//  3. $XDG_CONFIG_HOME/jcomment/config.*（未設定なら ~/.config）
//  4. ~/.jcomment.*
//
// 見つからなければ空のパスと OriginNone を返します。
func Find(repoDir, explicit, xdgHome, home string) (string, Origin, error) {
	if p := strings.TrimSpace(explicit); p != "" {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", OriginNone, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", OriginNone, err
		}
		if info.IsDir() {
			return "", OriginNone, fmt.Errorf("config path %q is a directory", abs)
		}
		return abs, OriginExplicit, nil
	}

	start := strings.TrimSpace(repoDir)
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", OriginNone, err
	}
	for {
		if p := firstExisting(dir, configFilenames); p != "" {
			return p, OriginRepo, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	homeDir := resolveHome(home)
	xdgRoot := strings.TrimSpace(xdgHome)
	if xdgRoot == "" && homeDir != "" {
		xdgRoot = filepath.Join(homeDir, ".config")
	}
	if xdgRoot != "" {
		if p := firstExisting(filepath.Join(xdgRoot, "jcomment"), xdgFilenames); p != "" {
			return p, OriginXDG, nil
		}
	}
	if homeDir != "" {
		if p := firstExisting(homeDir, configFilenames); p != "" {
			return p, OriginHome, nil
		}
	}
	return "", OriginNone, nil
}

func resolveHome(home string) string {
	if h := strings.TrimSpace(home); h != "" {
		return h
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return ""
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
