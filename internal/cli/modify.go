package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
	"github.com/hyperifyio/gobacklog/internal/backlog"
)

var tagCmd = &cobra.Command{
	Use:   "tag <id> <tags>",
	Short: "Replace an article's tags",
	Long: `Replace an article's tags with a comma-separated list.
An empty list clears the tags.

Examples:
  gobacklog tag 1a2b3c4d go,networking
  gobacklog tag 1a2b3c4d ""`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags := splitTags(args[1])
		if tags == nil {
			tags = []string{}
		}
		a, err := app.NewStore(cfg).Update(args[0], backlog.Patch{Tags: &tags})
		if err != nil {
			return err
		}
		fmt.Printf("%s %s  tags: %s\n",
			color.GreenString("Updated"), shortID(a.ID), strings.Join(a.Tags, ", "))
		return nil
	},
}

var priorityCmd = &cobra.Command{
	Use:   "priority <id> <level>",
	Short: "Set an article's priority",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := parsePriority(args[1]); err != nil {
			return err
		}
		a, err := app.NewStore(cfg).Update(args[0], backlog.Patch{Priority: &args[1]})
		if err != nil {
			return err
		}
		fmt.Printf("%s %s  priority: %s\n",
			color.GreenString("Updated"), shortID(a.ID), colorPriority(a.Priority))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(priorityCmd)
}
