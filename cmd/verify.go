package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mabhi256/mapverify/internal/config"
	"github.com/mabhi256/mapverify/internal/inheritance"
	"github.com/mabhi256/mapverify/internal/logging"
	"github.com/mabhi256/mapverify/internal/mappings"
	"github.com/mabhi256/mapverify/internal/report"
	"github.com/mabhi256/mapverify/internal/tui"
	"github.com/mabhi256/mapverify/internal/verifier"
	"github.com/mabhi256/mapverify/utils"
	"github.com/spf13/cobra"
)

var validFormats = []string{"cli", "json", "tui"}

var verifyFlags struct {
	configPath string
	jar        string
	mapPath    string
	format     string
	logPath    string
	verbose    bool
	parallel   bool
	output     string
	checks     []string
}

var verifyCfg *config.Config

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Run the consistency checks over an archive and its mappings",
	Example: `  mapverify verify --jar client.jar --map joined.tsrg
  mapverify verify --jar client.jar --map joined.srg --log verify.log --checks unique-ids
  mapverify verify --config mapverify.yaml -o json`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		for _, path := range []string{cfg.Jar, cfg.Map} {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return fmt.Errorf("file does not exist: %s", path)
			}
		}
		if _, err := mappings.ParseFormat(cfg.Format); err != nil {
			return err
		}
		if _, err := verifier.Select(cfg.Checks); err != nil {
			return err
		}

		verifyCfg = cfg
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(verifyCfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// resolveConfig layers explicitly set flags over the environment and the
// config file.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(verifyFlags.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("jar") {
		cfg.Jar = verifyFlags.jar
	}
	if flags.Changed("map") {
		cfg.Map = verifyFlags.mapPath
	}
	if flags.Changed("format") {
		cfg.Format = verifyFlags.format
	}
	if flags.Changed("log") {
		cfg.Log = verifyFlags.logPath
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verifyFlags.verbose
	}
	if flags.Changed("parallel") {
		cfg.Parallel = verifyFlags.parallel
	}
	if flags.Changed("output") {
		cfg.Output.Mode = verifyFlags.output
	}
	if flags.Changed("checks") {
		cfg.Checks = verifyFlags.checks
	}
	cfg.Output.Mode = strings.ToLower(cfg.Output.Mode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runVerify(cfg *config.Config, stdout, stderr io.Writer) error {
	console := stderr
	if cfg.Output.Mode == "tui" {
		console = io.Discard
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:    cfg.Log,
		Verbose: cfg.Verbose,
		Console: console,
	})
	if err != nil {
		return err
	}
	defer closeLog()

	start := time.Now()

	inh, err := inheritance.Load(cfg.Jar)
	if err != nil {
		logger.Error("Could not load " + cfg.Jar + ": " + err.Error())
		return fmt.Errorf("failed to load archive %s: %w", cfg.Jar, err)
	}
	logger.Info(fmt.Sprintf("Loaded %d classes from %s", inh.Count(), cfg.Jar))

	format, err := mappings.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	m, err := mappings.LoadFileAs(cfg.Map, format)
	if err != nil {
		logger.Error("Could not load " + cfg.Map + ": " + err.Error())
		return fmt.Errorf("failed to load mappings %s: %w", cfg.Map, err)
	}
	logger.Info(fmt.Sprintf("Loaded %d mapped classes from %s", len(m.ClassNames()), cfg.Map))

	loadTime := time.Since(start)

	verifiers, err := verifier.Select(cfg.Checks)
	if err != nil {
		return err
	}

	engine := &verifier.Engine{
		Verifiers: verifiers,
		Parallel:  cfg.Parallel,
		Logger:    logger,
	}
	result := engine.Run(inh, m)
	report.Log(logger, result)

	if result.OK {
		logger.Info("Verification passed")
	} else {
		logger.Error("Verification failed: " + strings.Join(result.Failed(), ", "))
	}

	summary := report.Summary{
		Jar:           cfg.Jar,
		Map:           cfg.Map,
		Classes:       inh.Count(),
		MappedClasses: len(m.ClassNames()),
		LoadTime:      loadTime,
		Result:        result,
	}

	if cfg.Output.Mode == "tui" {
		if err := tui.StartTUI(summary); err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
	} else if err := report.Print(stdout, summary, cfg.Output.Mode); err != nil {
		return err
	}

	if !result.OK {
		return ErrVerificationFailed
	}
	return nil
}

func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return validFormats, cobra.ShellCompDirectiveNoFileComp
}

func completeCheckNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, name := range verifier.Names() {
		if !slices.Contains(verifyFlags.checks, name) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	flags := verifyCmd.Flags()
	flags.StringVarP(&verifyFlags.configPath, "config", "c", "", "YAML config file (default ./"+config.DefaultFile+" if present)")
	flags.StringVar(&verifyFlags.jar, "jar", "", "Input JAR archive")
	flags.StringVar(&verifyFlags.mapPath, "map", "", "Mapping file (TSRG or SRG)")
	flags.StringVar(&verifyFlags.format, "format", "auto", "Mapping format: tsrg, srg or auto")
	flags.StringVar(&verifyFlags.logPath, "log", "", "Write every log line to this file")
	flags.BoolVarP(&verifyFlags.verbose, "verbose", "v", false, "Print informational lines to the console")
	flags.BoolVar(&verifyFlags.parallel, "parallel", false, "Run checks concurrently")
	flags.StringVarP(&verifyFlags.output, "output", "o", "cli", "Output format: "+strings.Join(validFormats, ", "))
	flags.StringSliceVar(&verifyFlags.checks, "checks", nil, "Comma-separated checks to run (default all)")

	verifyCmd.RegisterFlagCompletionFunc("jar", utils.CompleteFilesByExtension(".jar", ".zip"))
	verifyCmd.RegisterFlagCompletionFunc("map", utils.CompleteFilesByExtension(".tsrg", ".srg"))
	verifyCmd.RegisterFlagCompletionFunc("config", utils.CompleteFilesByExtension(".yaml", ".yml"))
	verifyCmd.RegisterFlagCompletionFunc("output", completeOutputFormats)
	verifyCmd.RegisterFlagCompletionFunc("checks", completeCheckNames)
	verifyCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "tsrg", "srg"}, cobra.ShellCompDirectiveNoFileComp
	})
}
