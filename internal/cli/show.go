package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one article in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.NewStore(cfg).Get(args[0])
		if err != nil {
			return err
		}

		bold := color.New(color.Bold).Sprint
		fmt.Println(bold(a.Title))
		fmt.Printf("  id:        %s\n", a.ID)
		fmt.Printf("  url:       %s\n", a.URL)
		fmt.Printf("  source:    %s\n", a.SourceDomain)
		if a.PublishedAt != "" {
			fmt.Printf("  published: %s\n", a.PublishedAt)
		}
		fmt.Printf("  priority:  %s\n", colorPriority(a.Priority))
		fmt.Printf("  status:    %s\n", colorStatus(a.Status))
		if len(a.Tags) > 0 {
			fmt.Printf("  tags:      %s\n", strings.Join(a.Tags, ", "))
		}
		fmt.Printf("  added:     %s\n", a.AddedAt.Local().Format(time.RFC1123))
		if a.ReadAt != nil {
			fmt.Printf("  read:      %s\n", a.ReadAt.Local().Format(time.RFC1123))
		}
		if a.Summary != "" {
			fmt.Printf("\n%s\n", a.Summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
