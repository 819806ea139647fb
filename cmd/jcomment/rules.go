package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phyten/jcomment/internal/output"
	"github.com/phyten/jcomment/internal/rules"
)

func (a *app) newRulesCmd() *cobra.Command {
	var (
		all    bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "ルールの一覧を表示します",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := make([]rules.Rule, 0, len(rules.All()))
			for _, r := range rules.All() {
				if r.Deprecated && !all {
					continue
				}
				list = append(list, r)
			}
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "table":
				return output.WriteRuleTable(a.stdout, list, a.tableOptions(a.root.color))
			case "json":
				return output.WriteRuleJSON(a.stdout, list)
			default:
				return usageError(fmt.Errorf("invalid --output: %s (want table|json)", format))
			}
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "非推奨のルールも表示する")
	cmd.Flags().StringVarP(&format, "output", "o", "table", "出力形式: table|json")
	return cmd
}
