package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an article from the backlog",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolP("force", "f", false, "delete without confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	st := app.NewStore(cfg)
	a, err := st.Get(args[0])
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		fmt.Printf("Delete %q (%s)? [y/N] ", a.Title, shortID(a.ID))
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
		default:
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := st.Delete(a.ID); err != nil {
		return err
	}
	fmt.Printf("%s %s  %s\n", color.GreenString("Deleted"), shortID(a.ID), a.Title)
	return nil
}
