// Package detect はファイルパスと内容からプログラミング言語を推定します。
package detect

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"
)

type Info struct {
	Name string
}

type language struct {
	name      string
	exts      []string
	basenames []string
	shebangs  []string
	aliases   []string
}

// languages は検出対象の言語一覧です。ここに載っている言語だけがコメント抽出の対象になります。
var languages = []language{
	{name: "c", exts: []string{".c", ".h"}},
	{name: "cpp", exts: []string{".cc", ".cp", ".cpp", ".cxx", ".hh", ".hpp", ".hxx", ".ino"}, aliases: []string{"c++", "cxx", "hpp"}},
	{name: "csharp", exts: []string{".cs", ".csx"}, shebangs: []string{"dotnet-script"}, aliases: []string{"c#", "cs"}},
	{name: "objective-c", exts: []string{".m", ".mm"}, aliases: []string{"objc"}},
	{name: "go", exts: []string{".go"}, aliases: []string{"golang"}},
	{name: "java", exts: []string{".java"}},
	{name: "kotlin", exts: []string{".kt", ".kts"}, aliases: []string{"kt"}},
	{name: "scala", exts: []string{".scala", ".sc"}},
	{name: "groovy", exts: []string{".groovy", ".gradle"}, basenames: []string{"jenkinsfile"}, shebangs: []string{"groovy"}},
	{name: "swift", exts: []string{".swift"}, shebangs: []string{"swift"}},
	{name: "rust", exts: []string{".rs"}, aliases: []string{"rs"}},
	{name: "dart", exts: []string{".dart"}},
	{name: "zig", exts: []string{".zig"}},
	{name: "proto", exts: []string{".proto"}, aliases: []string{"protobuf"}},
	{name: "javascript", exts: []string{".js", ".mjs", ".cjs", ".jsx"}, shebangs: []string{"node", "deno"}, aliases: []string{"js", "jsx", "mjs"}},
	{name: "typescript", exts: []string{".ts", ".mts", ".cts", ".tsx"}, aliases: []string{"ts", "tsx"}},
	{name: "php", exts: []string{".php", ".phtml"}, shebangs: []string{"php"}},
	{name: "python", exts: []string{".py", ".pyw", ".pyi"}, basenames: []string{"sconstruct"}, shebangs: []string{"python"}, aliases: []string{"py"}},
	{name: "ruby", exts: []string{".rb", ".rake", ".gemspec"}, basenames: []string{"gemfile", "rakefile", "vagrantfile", "podfile"}, shebangs: []string{"ruby"}, aliases: []string{"rb"}},
	{name: "perl", exts: []string{".pl", ".pm"}, shebangs: []string{"perl"}},
	{name: "shell", exts: []string{".sh", ".bash", ".zsh", ".ksh"}, basenames: []string{"gradlew"}, shebangs: []string{"bash", "zsh", "ksh", "sh"}, aliases: []string{"bash", "sh", "zsh"}},
	{name: "powershell", exts: []string{".ps1", ".psm1", ".psd1"}, shebangs: []string{"pwsh", "powershell"}, aliases: []string{"ps1", "pwsh"}},
	{name: "yaml", exts: []string{".yaml", ".yml"}, aliases: []string{"yml"}},
	{name: "toml", exts: []string{".toml"}},
	{name: "ini", exts: []string{".ini", ".cfg", ".properties"}},
	{name: "make", exts: []string{".mk"}, basenames: []string{"makefile", "gnumakefile"}, aliases: []string{"makefile"}},
	{name: "dockerfile", exts: []string{".dockerfile"}, basenames: []string{"dockerfile", "containerfile"}, aliases: []string{"docker"}},
	{name: "terraform", exts: []string{".tf", ".tfvars", ".hcl"}, aliases: []string{"tf", "hcl"}},
	{name: "sql", exts: []string{".sql", ".psql", ".pgsql"}},
	{name: "lua", exts: []string{".lua"}, shebangs: []string{"lua"}},
	{name: "haskell", exts: []string{".hs"}, aliases: []string{"hs"}},
	{name: "html", exts: []string{".html", ".htm", ".xhtml", ".vue", ".svelte"}, aliases: []string{"htm"}},
	{name: "xml", exts: []string{".xml", ".xaml", ".csproj", ".props", ".targets", ".resx"}},
	{name: "css", exts: []string{".css", ".scss", ".less"}, aliases: []string{"scss", "less"}},
	{name: "vb", exts: []string{".vb", ".bas"}, aliases: []string{"vbnet", "visualbasic"}},
	{name: "fsharp", exts: []string{".fs", ".fsi", ".fsx"}, aliases: []string{"f#"}},
	{name: "batch", exts: []string{".bat", ".cmd"}},
}

var (
	byExt      = map[string]string{}
	byBasename = map[string]string{}
	byAlias    = map[string]string{}
	byShebang  = map[string]string{}
	shebangKey []string
)

func init() {
	for _, l := range languages {
		byAlias[l.name] = l.name
		for _, e := range l.exts {
			byExt[e] = l.name
		}
		for _, b := range l.basenames {
			byBasename[b] = l.name
		}
		for _, a := range l.aliases {
			byAlias[a] = l.name
		}
		for _, s := range l.shebangs {
			byShebang[s] = l.name
			shebangKey = append(shebangKey, s)
		}
	}
	// 長い名前から照合する（"bash" を "sh" より先に見る）
	sort.Slice(shebangKey, func(i, j int) bool {
		if len(shebangKey[i]) == len(shebangKey[j]) {
			return shebangKey[i] < shebangKey[j]
		}
		return len(shebangKey[i]) > len(shebangKey[j])
	})
}

// FromPathAndContent はパス（拡張子・ファイル名）を優先し、判定できなければ shebang を見ます。
func FromPathAndContent(p string, data []byte) Info {
	if name := detectByPath(p); name != "" {
		return Info{Name: name}
	}
	return Info{Name: detectByShebang(data)}
}

func detectByPath(p string) string {
	base := strings.ToLower(filepath.Base(p))
	if lang, ok := byBasename[base]; ok {
		return lang
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return ""
	}
	if lang, ok := byExt[ext]; ok {
		return lang
	}
	// Dockerfile.dev のような形式
	if lang, ok := byBasename[strings.TrimSuffix(base, ext)]; ok {
		return lang
	}
	return ""
}

func detectByShebang(data []byte) string {
	if !bytes.HasPrefix(data, []byte("#!")) {
		return ""
	}
	end := bytes.IndexByte(data, '\n')
	if end < 0 {
		end = len(data)
	}
	fields := strings.Fields(strings.ToLower(string(data[2:end])))
	for _, f := range fields {
		prog := filepath.Base(f)
		if prog == "env" || strings.HasPrefix(prog, "-") {
			continue
		}
		for _, key := range shebangKey {
			if strings.HasPrefix(prog, key) {
				return byShebang[key]
			}
		}
		return ""
	}
	return ""
}

// NormalizeLangName は別名を正規の言語名に揃えます。未知の名前は小文字化して返します。
func NormalizeLangName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return ""
	}
	if canon, ok := byAlias[n]; ok {
		return canon
	}
	return n
}

func MatchesLang(info Info, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	detected := NormalizeLangName(info.Name)
	if detected == "" {
		return false
	}
	for _, raw := range allow {
		if NormalizeLangName(raw) == detected {
			return true
		}
	}
	return false
}

func KnownLanguage(name string) bool {
	_, ok := byAlias[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// CanonicalDetectLangs は重複と空要素を取り除いた正規名のリストを返します。
func CanonicalDetectLangs(values []string) []string {
	if len(values) == 0 {
		return values
	}
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		norm := NormalizeLangName(raw)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out
}

// Names は既知の言語名をソートして返します。
func Names() []string {
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		out = append(out, l.name)
	}
	sort.Strings(out)
	return out
}
