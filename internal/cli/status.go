package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
	"github.com/hyperifyio/gobacklog/internal/backlog"
)

var readCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark an article as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(args[0], backlog.StatusRead)
	},
}

var unreadCmd = &cobra.Command{
	Use:   "unread <id>",
	Short: "Move an article back to unread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(args[0], backlog.StatusUnread)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(unreadCmd)
}

func setStatus(idOrPrefix string, status backlog.Status) error {
	a, err := app.NewStore(cfg).SetStatus(idOrPrefix, status)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s  %s\n", color.GreenString("Marked "+string(status)), shortID(a.ID), a.Title)
	return nil
}
