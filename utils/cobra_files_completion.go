package utils

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// CompleteFilesByExtension completes paths to files whose extension is one
// of extensions (case-insensitive) and to directories.
func CompleteFilesByExtension(extensions ...string) func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		dir := filepath.Dir(toComplete)
		prefix := filepath.Base(toComplete)

		// If no path separator, we're completing in current directory
		if !strings.Contains(toComplete, "/") {
			dir = "."
			prefix = toComplete
		}

		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var suggestions []string
		for _, file := range files {
			name := file.Name()

			// Skip hidden files and non-matching prefixes
			if strings.HasPrefix(name, ".") || !strings.HasPrefix(name, prefix) {
				continue
			}

			suggestion := name
			if dir != "." {
				suggestion = filepath.Join(dir, name)
			}

			if file.IsDir() {
				suggestions = append(suggestions, suggestion+"/")
			} else if HasExtension(name, extensions...) {
				suggestions = append(suggestions, suggestion)
			}
		}

		slices.Sort(suggestions)
		return suggestions, cobra.ShellCompDirectiveNoFileComp
	}
}

func HasExtension(filename string, extensions ...string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext != "" && slices.Contains(extensions, ext)
}
