package engine

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/phyten/jcomment/internal/execx"
	"github.com/phyten/jcomment/internal/model"
	"github.com/phyten/jcomment/internal/progress"
	"github.com/phyten/jcomment/internal/rules"
)

// Diagnostic は 1 つのコメントで 1 つのルールに違反したことを表す報告行です。
type Diagnostic struct {
	RuleID      string            `json:"rule_id"`
	Rule        string            `json:"rule"`
	Severity    rules.Severity    `json:"severity"`
	Message     string            `json:"message"`
	File        string            `json:"file"`
	Line        int               `json:"line"`
	Col         int               `json:"col"`
	Lang        string            `json:"lang,omitempty"`
	CommentKind model.CommentKind `json:"comment_kind,omitempty"`
	Excerpt     string            `json:"excerpt,omitempty"`
	Span        model.Span        `json:"span"`
	URL         string            `json:"url,omitempty"`

	order int
}

// ItemError は 1 ファイルの処理に失敗した際の情報を表す
type ItemError struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Options は実行オプション
type Options struct {
	DetectMode        string // auto|parse|style
	Jobs              int
	RepoDir           string
	DetectLangs       []string
	Paths             []string
	Files             []string // 指定時はファイル列挙を行わない（RepoDir からの相対パス）
	Excludes          []string
	PathRegex         []string
	PathRegexCompiled []*regexp.Regexp
	MaxFileBytes      int
	ExcludeTypical    bool // ゼロ値では vendor などを除外しない。CLI の既定値は opts.Defaults が true にする
	NoGit             bool
	ExcerptWidth      int
	Rules             rules.Settings
	ProgressObserver  progress.Observer `json:"-"`
	Logger            *zap.Logger       `json:"-"`
	Runner            execx.Runner      `json:"-"`
}

// Result は出力
type Result struct {
	Diagnostics []Diagnostic   `json:"diagnostics"`
	Total       int            `json:"total"`
	Files       int            `json:"files"`
	Comments    int            `json:"comments"`
	Suppressed  int            `json:"suppressed"`
	Counts      map[string]int `json:"counts"`
	ElapsedMS   int64          `json:"elapsed_ms"`
	Errors      []ItemError    `json:"errors,omitempty"`
	ErrorCount  int            `json:"error_count"`
}

// CountAtLeast は重大度が min 以上の診断の件数を返します。
func (r *Result) CountAtLeast(min rules.Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity.Rank() >= min.Rank() {
			n++
		}
	}
	return n
}
