package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mapverify",
	Short: "Verify obfuscation mappings against a compiled archive",
	Long: `mapverify loads the classes of a JAR and a TSRG/SRG mapping file and runs
consistency checks over the pair, such as the uniqueness of generated
field, method and parameter IDs.

Shell completions are set up with 'mapverify install'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ErrVerificationFailed is returned when every input loaded but at least one
// check failed. It maps to exit status 2; any other error exits with 1.
var ErrVerificationFailed = errors.New("verification failed")

func Execute() {
	os.Exit(run(rootCmd))
}

func run(cmd *cobra.Command) int {
	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrVerificationFailed):
		return 2
	default:
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}
