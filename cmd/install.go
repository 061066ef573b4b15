package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var installShell string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		shell := installShell
		if shell == "" {
			shell = detectShell()
		}
		target, ok := completionTargets(cmd.Root())[shell]
		if !ok {
			return fmt.Errorf("shell completion not supported for: %s (supported: %s)",
				shell, strings.Join(supportedShells(), ", "))
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to locate home directory: %w", err)
		}

		path, err := target.install(home)
		if err != nil {
			return fmt.Errorf("failed to install %s completions: %w", shell, err)
		}

		fmt.Fprintf(out, "✅ Wrote %s completions to %s\n", shell, path)
		fmt.Fprintf(out, "🔄 Run this command to enable them now:\n   %s\n", target.activate(home))
		if !isInPath() {
			printPathInstructions(out)
		}
		return nil
	},
}

// completionTarget says where one shell looks for completion scripts.
type completionTarget struct {
	dir      string // relative to the home directory
	file     string
	generate func(io.Writer) error
	activate func(home string) string
}

func (t completionTarget) install(home string) (string, error) {
	dir := filepath.Join(home, t.dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, t.file)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := t.generate(f); err != nil {
		return "", err
	}
	return path, nil
}

func completionTargets(root *cobra.Command) map[string]completionTarget {
	name := root.Name()
	return map[string]completionTarget{
		"bash": {
			dir:      ".local/share/bash-completion/completions",
			file:     name,
			generate: func(w io.Writer) error { return root.GenBashCompletionV2(w, true) },
			activate: func(home string) string {
				return "source " + filepath.Join(home, ".local/share/bash-completion/completions", name)
			},
		},
		"zsh": {
			dir:      ".zsh/completions",
			file:     "_" + name,
			generate: root.GenZshCompletion,
			activate: func(home string) string {
				return fmt.Sprintf("fpath=(%s $fpath) && autoload -U compinit && compinit", filepath.Join(home, ".zsh/completions"))
			},
		},
		"fish": {
			dir:      ".config/fish/completions",
			file:     name + ".fish",
			generate: func(w io.Writer) error { return root.GenFishCompletion(w, true) },
			activate: func(string) string { return "complete --do-complete=" + name },
		},
		"powershell": {
			dir:      "",
			file:     name + "_completion.ps1",
			generate: root.GenPowerShellCompletionWithDesc,
			activate: func(home string) string { return ". " + filepath.Join(home, name+"_completion.ps1") },
		},
	}
}

func supportedShells() []string {
	var shells []string
	for shell := range completionTargets(rootCmd) {
		shells = append(shells, shell)
	}
	sort.Strings(shells)
	return shells
}

func detectShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	return "bash"
}

func isInPath() bool {
	execPath, err := os.Executable()
	if err != nil {
		return false
	}
	paths := filepath.SplitList(os.Getenv("PATH"))
	return slices.Contains(paths, filepath.Dir(execPath))
}

func printPathInstructions(w io.Writer) {
	execPath, _ := os.Executable()
	execDir := filepath.Dir(execPath)

	fmt.Fprintf(w, "💡 mapverify is not in PATH. Binary location: %s\n", execPath)
	if runtime.GOOS == "windows" {
		fmt.Fprintf(w, "   Add to PATH: %s\n", execDir)
	} else {
		fmt.Fprintf(w, "   Add to shell profile: export PATH=\"%s:$PATH\"\n", execDir)
	}
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringVar(&installShell, "shell", "", "Shell to install for (default: detected from $SHELL)")
	installCmd.RegisterFlagCompletionFunc("shell", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return supportedShells(), cobra.ShellCompDirectiveNoFileComp
	})
}
