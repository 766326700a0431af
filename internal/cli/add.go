package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
	"github.com/hyperifyio/gobacklog/internal/pipeline"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Save a web article to the backlog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, pipeline.Request{URL: args[0]})
	},
}

var addLocalCmd = &cobra.Command{
	Use:   "add-local <path>",
	Short: "Save a local PDF or HTML file to the backlog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, pipeline.Request{LocalPath: args[0]})
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(addLocalCmd)

	for _, c := range []*cobra.Command{addCmd, addLocalCmd} {
		c.Flags().String("tags", "", "comma-separated tags")
		c.Flags().String("priority", "", "priority: low, medium or high")
	}
}

func runAdd(cmd *cobra.Command, req pipeline.Request) error {
	tags, _ := cmd.Flags().GetString("tags")
	prio, _ := cmd.Flags().GetString("priority")

	req.Tags = splitTags(tags)
	p, err := parsePriority(prio)
	if err != nil {
		return err
	}
	req.Priority = p

	pipe := app.NewPipeline(cfg)
	draft, err := pipe.Run(context.Background(), req)
	if err != nil {
		return err
	}

	article, err := app.NewStore(cfg).Add(draft)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s  %s\n",
		color.GreenString("Saved"), shortID(article.ID), article.Title)
	if article.Summary != "" {
		fmt.Printf("  %s\n", article.Summary)
	}
	return nil
}
