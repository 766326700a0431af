package cli

import (
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
	"github.com/hyperifyio/gobacklog/internal/backlog"
	"github.com/hyperifyio/gobacklog/internal/store"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List backlog articles",
	Long: `List articles, newest last, optionally filtered.

Examples:
  gobacklog list                     # everything
  gobacklog list --status unread     # unread only
  gobacklog list --priority high --tag go`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("status", "", "filter by status: unread or read")
	listCmd.Flags().String("priority", "", "filter by priority: low, medium or high")
	listCmd.Flags().String("tag", "", "filter by tag (case-insensitive)")
	listCmd.Flags().String("source", "", "filter by source domain (substring match)")
}

func runList(cmd *cobra.Command, args []string) error {
	var f store.Filter
	if s, _ := cmd.Flags().GetString("status"); s != "" {
		st, err := backlog.ParseStatus(s)
		if err != nil {
			return err
		}
		f.Status = st
	}
	if s, _ := cmd.Flags().GetString("priority"); s != "" {
		p, err := parsePriority(s)
		if err != nil {
			return err
		}
		f.Priority = p
	}
	f.Tag, _ = cmd.Flags().GetString("tag")
	f.Source, _ = cmd.Flags().GetString("source")

	articles, err := app.NewStore(cfg).List(f)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		cmd.Println("No articles.")
		return nil
	}

	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders:  tw.BorderNone,
			Settings: tw.Settings{Separators: tw.Separators{ShowHeader: tw.Off}},
		}),
	)
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			shortID(a.ID),
			clipTitle(a.Title),
			a.SourceDomain,
			colorPriority(a.Priority),
			colorStatus(a.Status),
			strings.Join(a.Tags, ", "),
		})
	}
	table.Header([]string{"ID", "TITLE", "SOURCE", "PRIORITY", "STATUS", "TAGS"})
	table.Bulk(rows)
	table.Render()
	cmd.Printf("\nTotal: %d articles\n", len(articles))
	return nil
}

func clipTitle(s string) string {
	const max = 60
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func colorPriority(p backlog.Priority) string {
	switch p {
	case backlog.PriorityHigh:
		return color.RedString(string(p))
	case backlog.PriorityLow:
		return color.New(color.Faint).Sprint(string(p))
	default:
		return color.YellowString(string(p))
	}
}

func colorStatus(s backlog.Status) string {
	if s == backlog.StatusRead {
		return color.GreenString(string(s))
	}
	return string(s)
}
