package verifier

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/mabhi256/mapverify/internal/inheritance"
	"github.com/mabhi256/mapverify/internal/mappings"
	"golang.org/x/sync/errgroup"
)

// Verifier is one independent consistency check. Process must not modify
// either input; it reports findings to sink and returns false on failure.
type Verifier interface {
	Name() string
	Description() string
	Process(inh *inheritance.Map, m *mappings.Mappings, sink *Sink) bool
}

// CheckResult is the outcome of one verifier.
type CheckResult struct {
	Name        string
	OK          bool
	Diagnostics []Diagnostic
	Elapsed     time.Duration
}

// Result aggregates every check of a run.
type Result struct {
	OK     bool
	Checks []CheckResult
}

// Diagnostics flattens the per-check diagnostics in check order.
func (r Result) Diagnostics() []Diagnostic {
	var all []Diagnostic
	for _, c := range r.Checks {
		all = append(all, c.Diagnostics...)
	}
	return all
}

// Failed returns the names of the checks that did not pass.
func (r Result) Failed() []string {
	var failed []string
	for _, c := range r.Checks {
		if !c.OK {
			failed = append(failed, c.Name)
		}
	}
	return failed
}

// Engine runs every verifier against the same two snapshots.
type Engine struct {
	Verifiers []Verifier
	// Parallel runs checks concurrently; output is identical to a serial run.
	Parallel bool
	Logger   *slog.Logger
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Run executes all verifiers. A failing check never stops the others.
// Results are ordered by check name.
func (e *Engine) Run(inh *inheritance.Map, m *mappings.Mappings) Result {
	verifiers := slices.Clone(e.Verifiers)
	sort.SliceStable(verifiers, func(i, j int) bool {
		return verifiers[i].Name() < verifiers[j].Name()
	})

	results := make([]CheckResult, len(verifiers))
	run := func(i int) {
		results[i] = e.runOne(verifiers[i], inh, m)
	}

	if e.Parallel && len(verifiers) > 1 {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range verifiers {
			g.Go(func() error {
				run(i)
				return nil
			})
		}
		g.Wait()
	} else {
		for i := range verifiers {
			run(i)
		}
	}

	result := Result{OK: true, Checks: results}
	for _, r := range results {
		result.OK = result.OK && r.OK
	}
	return result
}

func (e *Engine) runOne(v Verifier, inh *inheritance.Map, m *mappings.Mappings) CheckResult {
	log := e.logger().With("check", v.Name())
	log.Info("Processing: " + v.Name())

	start := time.Now()
	sink := NewSink(v.Name())
	ok := v.Process(inh, m, sink)
	elapsed := time.Since(start)

	// a check that reported an error cannot pass
	ok = ok && !sink.HasErrors()

	log.Info(fmt.Sprintf("  %s: %s", v.Name(), passFail(ok)), "elapsed", elapsed)

	return CheckResult{
		Name:        v.Name(),
		OK:          ok,
		Diagnostics: sink.Diagnostics(),
		Elapsed:     elapsed,
	}
}

func passFail(ok bool) string {
	if ok {
		return "Passed"
	}
	return "Failed"
}

// Builtin returns a fresh instance of every built-in check.
func Builtin() []Verifier {
	return []Verifier{
		&OverrideNames{},
		&UniqueIDs{},
	}
}

// Select returns the built-in checks with the given names; an empty list
// selects all of them.
func Select(names []string) ([]Verifier, error) {
	all := Builtin()
	if len(names) == 0 {
		return all, nil
	}

	byName := make(map[string]Verifier, len(all))
	for _, v := range all {
		byName[v.Name()] = v
	}

	var selected []Verifier
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		v, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown check: %s (available: %s)", name, strings.Join(Names(), ", "))
		}
		if !seen[name] {
			seen[name] = true
			selected = append(selected, v)
		}
	}
	return selected, nil
}

// Names lists the built-in check names, sorted.
func Names() []string {
	var names []string
	for _, v := range Builtin() {
		names = append(names, v.Name())
	}
	sort.Strings(names)
	return names
}
