package model

// CommentKind はコメントの種別（行コメント／ブロックコメント／ドキュメントコメント）を表します。
type CommentKind string

const (
	CommentKindUnknown CommentKind = "unknown"
	CommentKindLine    CommentKind = "line"
	CommentKindBlock   CommentKind = "block"
	CommentKindDoc     CommentKind = "doc"
)

// Span は 1 件のコメント範囲を行・桁・バイトオフセットで表します。
// 行と桁は 1 始まり、桁はバイト単位です。
type Span struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
	ByteStart int `json:"byte_start"`
	ByteEnd   int `json:"byte_end"`
}

// Location はコメントの位置です。判定処理からは不透明な値として扱われます。
type Location struct {
	File string `json:"file"`
	Span Span   `json:"span"`
}

// Valid は位置情報が最低限そろっているかを返します。
func (l Location) Valid() bool {
	return l.File != "" && l.Span.StartLine >= 1
}

// Comment はコメント記号を取り除いたコメント本文と、その位置を表します。
type Comment struct {
	Text     string      `json:"text"`
	Kind     CommentKind `json:"kind"`
	Lang     string      `json:"lang,omitempty"`
	Location Location    `json:"location"`
}

// Finding は 1 つのコメントで 1 つのルールが違反したことを表します。
type Finding struct {
	RuleID   string   `json:"rule_id"`
	Location Location `json:"location"`
}
