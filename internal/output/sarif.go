package output

import (
	"encoding/json"
	"io"

	"github.com/phyten/jcomment/internal/engine"
	"github.com/phyten/jcomment/internal/rules"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Results     []sarifResult     `json:"results"`
	Invocations []sarifInvocation `json:"invocations"`
	VCS         []sarifVCS        `json:"versionControlProvenance,omitempty"`
}

type sarifVCS struct {
	RepositoryURI string `json:"repositoryUri"`
	RevisionID    string `json:"revisionId,omitempty"`
}

// Provenance は SARIF の versionControlProvenance に載せるリポジトリ情報です。
type Provenance struct {
	RepositoryURI string
	RevisionID    string
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
	Properties           *sarifRuleProps    `json:"properties,omitempty"`
}

type sarifConfiguration struct {
	Enabled bool   `json:"enabled"`
	Level   string `json:"level"`
}

type sarifRuleProps struct {
	Deprecated bool     `json:"deprecated"`
	ReplacedBy []string `json:"replacedBy,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

type sarifInvocation struct {
	ExecutionSuccessful bool                `json:"executionSuccessful"`
	Notifications       []sarifNotification `json:"toolExecutionNotifications,omitempty"`
}

type sarifNotification struct {
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

// WriteSARIF は SARIF 2.1.0 のログを書き出します。driver.rules には登録済みの全ルールを
// 登録順で載せ、result.ruleIndex はその位置を指します。
// prov が nil なら versionControlProvenance を出しません。
func WriteSARIF(w io.Writer, res *engine.Result, toolVersion string, prov *Provenance) error {
	if res == nil {
		res = &engine.Result{}
	}
	all := rules.All()
	driver := sarifDriver{Name: "jcomment", Version: toolVersion, Rules: make([]sarifRule, 0, len(all))}
	for _, r := range all {
		sr := sarifRule{
			ID:               r.ID,
			Name:             r.Name,
			ShortDescription: sarifMessage{Text: r.Title},
			DefaultConfiguration: sarifConfiguration{
				Enabled: r.EnabledByDefault,
				Level:   sarifLevel(rules.SeverityWarning),
			},
		}
		if r.Deprecated {
			sr.Properties = &sarifRuleProps{Deprecated: true, ReplacedBy: r.ReplacedBy}
		}
		driver.Rules = append(driver.Rules, sr)
	}

	results := make([]sarifResult, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		results = append(results, sarifResult{
			RuleID:    d.RuleID,
			RuleIndex: rules.Position(d.RuleID),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifact{URI: d.File},
				Region: sarifRegion{
					StartLine:   d.Line,
					StartColumn: d.Col,
					EndLine:     d.Span.EndLine,
					EndColumn:   d.Span.EndCol,
				},
			}}},
		})
	}

	inv := sarifInvocation{ExecutionSuccessful: true}
	for _, e := range res.Errors {
		n := sarifNotification{Level: "warning", Message: sarifMessage{Text: e.Stage + ": " + e.Message}}
		if e.File != "" {
			region := sarifRegion{StartLine: e.Line}
			if region.StartLine < 1 {
				region.StartLine = 1
			}
			n.Locations = []sarifLocation{{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifact{URI: e.File},
				Region:           region,
			}}}
		}
		inv.Notifications = append(inv.Notifications, n)
	}

	run := sarifRun{
		Tool:        sarifTool{Driver: driver},
		Results:     results,
		Invocations: []sarifInvocation{inv},
	}
	if prov != nil && prov.RepositoryURI != "" {
		run.VCS = []sarifVCS{{RepositoryURI: prov.RepositoryURI, RevisionID: prov.RevisionID}}
	}
	log := sarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func sarifLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return "error"
	case rules.SeverityInfo:
		return "note"
	case rules.SeverityHidden:
		return "none"
	default:
		return "warning"
	}
}
