package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mabhi256/mapverify/internal/verifier"
	"github.com/mabhi256/mapverify/utils"
)

// Summary is everything a renderer needs about one verification run.
type Summary struct {
	Jar           string
	Map           string
	Classes       int
	MappedClasses int
	LoadTime      time.Duration
	Result        verifier.Result
}

func (s Summary) Errors() int {
	return s.count(verifier.SeverityError)
}

func (s Summary) Warnings() int {
	return s.count(verifier.SeverityWarning)
}

func (s Summary) count(sev verifier.Severity) int {
	n := 0
	for _, d := range s.Result.Diagnostics() {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Log writes every diagnostic to logger in check order, at the slog level
// matching its severity.
func Log(logger *slog.Logger, result verifier.Result) {
	for _, d := range result.Diagnostics() {
		logger.Log(context.Background(), Level(d.Severity), d.Message, "check", d.Check)
	}
}

func Level(sev verifier.Severity) slog.Level {
	switch sev {
	case verifier.SeverityError:
		return slog.LevelError
	case verifier.SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func Print(w io.Writer, s Summary, outputFormat string) error {
	switch outputFormat {
	case "cli":
		PrintCLI(w, s)
		return nil
	case "json":
		return PrintJSON(w, s)
	default:
		return fmt.Errorf("unknown output format '%s'", outputFormat)
	}
}

// PrintCLI prints the per-check verdicts. Diagnostics themselves go through
// the logger.
func PrintCLI(w io.Writer, s Summary) {
	fmt.Fprintf(w, "🔍 Mapping Verification\n")
	fmt.Fprintf(w, "Archive: %s  |  Mappings: %s\n", s.Jar, s.Map)
	fmt.Fprintf(w, "Classes: %d  |  Mapped: %d  |  Loaded in %s\n",
		s.Classes, s.MappedClasses, utils.FormatDuration(s.LoadTime))
	fmt.Fprintln(w, strings.Repeat("═", 65))

	fmt.Fprintln(w, "\n📋 CHECKS")
	fmt.Fprintln(w, strings.Repeat("─", 35))

	for _, c := range s.Result.Checks {
		status := utils.GoodStyle.Render("Passed")
		if !c.OK {
			status = utils.CriticalStyle.Render("Failed")
		}
		fmt.Fprintf(w, "%s %-20s %s %s\n",
			utils.GetStatusIcon(c.OK), c.Name, status,
			utils.MutedStyle.Render("("+utils.FormatDuration(c.Elapsed)+")"))

		if n := len(c.Diagnostics); n > 0 {
			fmt.Fprintf(w, "   %d diagnostic line(s)\n", n)
		}
	}

	fmt.Fprintln(w)
	if s.Result.OK {
		fmt.Fprintln(w, utils.GoodStyle.Render("✅ Verification passed"))
		return
	}
	fmt.Fprintln(w, utils.CriticalStyle.Render(fmt.Sprintf("❌ Verification failed: %s (%d errors, %d warnings)",
		strings.Join(s.Result.Failed(), ", "), s.Errors(), s.Warnings())))
}

type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type jsonCheck struct {
	Name        string           `json:"name"`
	OK          bool             `json:"ok"`
	ElapsedMs   float64          `json:"elapsed_ms"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
}

type jsonReport struct {
	Jar           string      `json:"jar"`
	Map           string      `json:"map"`
	Classes       int         `json:"classes"`
	MappedClasses int         `json:"mapped_classes"`
	OK            bool        `json:"ok"`
	Checks        []jsonCheck `json:"checks"`
}

func PrintJSON(w io.Writer, s Summary) error {
	out := jsonReport{
		Jar:           s.Jar,
		Map:           s.Map,
		Classes:       s.Classes,
		MappedClasses: s.MappedClasses,
		OK:            s.Result.OK,
		Checks:        make([]jsonCheck, 0, len(s.Result.Checks)),
	}

	for _, c := range s.Result.Checks {
		jc := jsonCheck{
			Name:        c.Name,
			OK:          c.OK,
			ElapsedMs:   float64(c.Elapsed.Microseconds()) / 1000,
			Diagnostics: make([]jsonDiagnostic, 0, len(c.Diagnostics)),
		}
		for _, d := range c.Diagnostics {
			jc.Diagnostics = append(jc.Diagnostics, jsonDiagnostic{
				Severity: d.Severity.String(),
				Message:  d.Message,
			})
		}
		out.Checks = append(out.Checks, jc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
