package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/gobacklog/internal/app"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the backlog as markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		md, err := app.NewStore(cfg).Export()
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			fmt.Print(md)
			return nil
		}
		if err := os.WriteFile(out, []byte(md), 0o644); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", color.GreenString("Exported"), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}
