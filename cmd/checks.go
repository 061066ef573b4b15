package cmd

import (
	"fmt"
	"io"

	"github.com/mabhi256/mapverify/internal/verifier"
	"github.com/mabhi256/mapverify/utils"
	"github.com/spf13/cobra"
)

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List the available checks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printChecks(cmd.OutOrStdout(), verifier.Builtin())
	},
}

func printChecks(w io.Writer, checks []verifier.Verifier) {
	for _, v := range checks {
		fmt.Fprintf(w, "%s  %s\n", utils.InfoStyle.Render(fmt.Sprintf("%-16s", v.Name())), v.Description())
	}
}

func init() {
	rootCmd.AddCommand(checksCmd)
}
