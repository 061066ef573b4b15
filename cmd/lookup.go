package cmd

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/mabhi256/mapverify/internal/mappings"
	"github.com/mabhi256/mapverify/utils"
	"github.com/spf13/cobra"
)

var lookupMap string

var lookupCmd = &cobra.Command{
	Use:   "lookup <class> [member [descriptor]]",
	Short: "Show what a mapping file renames a class, field or method to",
	Example: `  mapverify lookup --map joined.tsrg net/example/Foo
  mapverify lookup --map joined.tsrg net/example/Foo a
  mapverify lookup --map joined.tsrg net/example/Foo b "(I)V"`,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if lookupMap == "" {
			return fmt.Errorf("no mapping file: set --map")
		}
		if _, err := os.Stat(lookupMap); os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", lookupMap)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := mappings.LoadFile(lookupMap)
		if err != nil {
			return err
		}
		return printLookup(cmd.OutOrStdout(), m, args)
	},
}

func printLookup(w io.Writer, m *mappings.Mappings, args []string) error {
	name := args[0]
	info, mapped := m.Class(name)
	if !mapped {
		fmt.Fprintf(w, "%s %s\n", name, utils.MutedStyle.Render("(not mapped)"))
		info = m.Info(name)
	}

	switch len(args) {
	case 1:
		fmt.Fprintf(w, "%s -> %s\n", name, info.Target)
		if pkg := path.Dir(name); pkg != "." {
			fmt.Fprintf(w, "   package %s -> %s\n", pkg, m.MapPackage(pkg))
		}
		if info.IsRenamed() {
			fmt.Fprintf(w, "   %d fields, %d methods renamed\n", info.FieldCount(), info.MethodCount())
		} else {
			fmt.Fprintln(w, "   "+utils.MutedStyle.Render("no renames"))
		}

	case 2:
		fmt.Fprintf(w, "%s.%s -> %s\n", name, args[1], info.MapField(args[1]))

	case 3:
		member, d := args[1], args[2]
		fmt.Fprintf(w, "%s.%s%s -> %s%s\n", name, member, d, info.MapMethod(member, d), m.MapDesc(d))
		for _, p := range info.Params(member, d) {
			id := "-"
			if p.HasID {
				id = fmt.Sprint(p.ID)
			}
			fmt.Fprintf(w, "   slot %d: %s (id %s)\n", p.Slot, p.Name, id)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().StringVar(&lookupMap, "map", "", "Mapping file (TSRG or SRG)")
	lookupCmd.RegisterFlagCompletionFunc("map", utils.CompleteFilesByExtension(".tsrg", ".srg"))
}
