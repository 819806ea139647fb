package rules

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phyten/jcomment/internal/model"
)

func ids(rs []Rule) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func allActive(t *testing.T) []Rule {
	t.Helper()
	active, err := Active(Settings{EnableAll: true})
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	return active
}

func TestScanScenarios(t *testing.T) {
	active := allActive(t)
	cases := []struct {
		name string
		text string
		want []string
	}{
		{name: "半角カナのみ", text: "ｶﾀｶﾀ", want: []string{IDNarrowKana}},
		{name: "全角英字と全角スペース", text: "ＡＢＣ123　", want: []string{IDWideAlphabet, IDWideSpace}},
		{name: "空文字列", text: "", want: nil},
		{name: "全角括弧は1件にまとまる", text: "（注）", want: []string{IDWideParenthesis}},
		{name: "アットマークと英字は独立", text: "＠Ａ", want: []string{IDWideAlphabet, IDWideAtMark}},
		{name: "半角のみ", text: " plain ascii 123 !?()", want: nil},
		{name: "ひらがな漢字は対象外", text: "これは日本語のコメントです。", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(Scan(tc.text, active))
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Scan(%q) mismatch (-want +got):\n%s", tc.text, diff)
			}
		})
	}
}

func TestScanAtMostOnePerRule(t *testing.T) {
	active := allActive(t)
	text := strings.Repeat("ＡＡ１１　（）ｶﾅ", 50)
	got := ids(Scan(text, active))
	seen := map[string]int{}
	for _, id := range got {
		seen[id]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("rule %s fired %d times", id, n)
		}
	}
	want := []string{IDNarrowKana, IDWideAlphabet, IDWideNumeric, IDWideSpace, IDWideParenthesis}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected rules (-want +got):\n%s", diff)
	}
}

func TestScanFollowsRegistrationOrder(t *testing.T) {
	active := allActive(t)
	// 発見順は逆だが、結果は登録順になる
	got := ids(Scan("￥？ｱ", active))
	want := []string{IDNarrowKana, IDWideQuestion, IDWideYen}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestScanIdempotent(t *testing.T) {
	active := allActive(t)
	text := "ＴＯＤＯ：全角！＃＄％＆＊＋，－．／；＜＝＞？［］｛｝￥’”"
	first := ids(Scan(text, active))
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, ids(Scan(text, active))); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestScanMonotonicInActiveRules(t *testing.T) {
	active := allActive(t)
	text := "ＡＢ１　（）：ｶ"
	full := ids(Scan(text, active))
	for i, r := range active {
		reduced := append(append([]Rule(nil), active[:i]...), active[i+1:]...)
		got := ids(Scan(text, reduced))
		var want []string
		for _, id := range full {
			if id != r.ID {
				want = append(want, id)
			}
		}
		if len(got) == 0 {
			got = nil
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("disabling %s changed other findings (-want +got):\n%s", r.ID, diff)
		}
	}
}

func TestScanStopsCallingPredicateAfterFirstMatch(t *testing.T) {
	calls := 0
	active := []Rule{{ID: "X", Match: func(r rune) bool { calls++; return r == 'x' }}}
	Scan("xxxxxxxx", active)
	if calls != 1 {
		t.Fatalf("expected 1 predicate call, got %d", calls)
	}
}

func TestScanInvalidUTF8(t *testing.T) {
	active := allActive(t)
	text := "\xff\xfe\xed\xa0\x80" // 不正なバイト列と単独サロゲート
	if got := Scan(text, active); len(got) != 0 {
		t.Fatalf("expected no findings for invalid input, got %v", ids(got))
	}
}

func TestEvaluateCarriesLocation(t *testing.T) {
	loc := model.Location{File: "a.cs", Span: model.Span{StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 20}}
	got, err := Evaluate(model.Comment{Text: "ＡＢＣ123　", Location: loc}, allActive(t))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := []model.Finding{
		{RuleID: IDWideAlphabet, Location: loc},
		{RuleID: IDWideSpace, Location: loc},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateRejectsMissingLocation(t *testing.T) {
	for _, loc := range []model.Location{
		{},
		{File: "a.go"},
		{Span: model.Span{StartLine: 1}},
	} {
		_, err := Evaluate(model.Comment{Text: "ｶ", Location: loc}, allActive(t))
		if !errors.Is(err, ErrMissingLocation) {
			t.Fatalf("expected ErrMissingLocation for %+v, got %v", loc, err)
		}
	}
}

func TestScanConcurrent(t *testing.T) {
	active := allActive(t)
	texts := []string{"ｶﾀｶﾀ", "ＡＢＣ123　", "", "（注）", "＠Ａ"}
	want := make([][]string, len(texts))
	for i, text := range texts {
		want[i] = ids(Scan(text, active))
	}
	var wg sync.WaitGroup
	errs := make(chan string, 16*len(texts))
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, text := range texts {
				if got := ids(Scan(text, active)); !cmp.Equal(want[i], got) {
					errs <- text
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for text := range errs {
		t.Errorf("concurrent scan of %q differed", text)
	}
}

func BenchmarkScanJapaneseComment(b *testing.B) {
	active := Defaults()
	text := strings.Repeat("この関数は入力を検証し、エラーを返します。", 20)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Scan(text, active)
	}
}

func BenchmarkScanAllRulesFire(b *testing.B) {
	active, _ := Active(Settings{EnableAll: true})
	text := "ｱＡ１　’”！＃＄％＆（＊＋，－．／：；＜＝＞？＠［｛￥" + strings.Repeat("あ", 200)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Scan(text, active)
	}
}
