package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/mabhi256/mapverify/internal/classfile"
	"github.com/mabhi256/mapverify/internal/inheritance"
	"github.com/mabhi256/mapverify/utils"
	"github.com/spf13/cobra"
)

var classesDump bool

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

var classesCmd = &cobra.Command{
	Use:               "classes [jar-file]",
	Short:             "List the classes of an archive in load order",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension(".jar", ".zip"),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", args[0])
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		inh, err := inheritance.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load archive %s: %w", args[0], err)
		}
		printClasses(cmd.OutOrStdout(), inh, classesDump)
		return nil
	},
}

func printClasses(w io.Writer, inh *inheritance.Map, dump bool) {
	for _, cls := range inh.Classes() {
		if dump {
			dumpConfig.Fdump(w, cls)
			continue
		}
		fmt.Fprintln(w, describeClass(cls))
	}
	fmt.Fprintln(w, utils.MutedStyle.Render(fmt.Sprintf("%d classes", inh.Count())))
}

func describeClass(cls *classfile.ClassInfo) string {
	var sb strings.Builder
	kind := "class"
	if cls.IsInterface() {
		kind = "interface"
	}
	fmt.Fprintf(&sb, "%s %s", kind, cls.Name)
	if cls.Super != "" {
		fmt.Fprintf(&sb, " extends %s", cls.Super)
	}
	if len(cls.Interfaces) > 0 {
		fmt.Fprintf(&sb, " implements %s", strings.Join(cls.Interfaces, ", "))
	}
	fmt.Fprintf(&sb, " (%d fields, %d methods", len(cls.Fields), len(cls.Methods))
	synthetic := 0
	for _, m := range cls.MethodList() {
		if m.IsSynthetic() {
			synthetic++
		}
	}
	if synthetic > 0 {
		fmt.Fprintf(&sb, ", %d synthetic", synthetic)
	}
	sb.WriteByte(')')
	return sb.String()
}

func init() {
	rootCmd.AddCommand(classesCmd)

	classesCmd.Flags().BoolVar(&classesDump, "dump", false, "Dump the parsed class records")
}
