package verifier

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/mabhi256/mapverify/internal/classfile/classfiletest"
	"github.com/mabhi256/mapverify/internal/inheritance"
	"github.com/mabhi256/mapverify/internal/mappings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	name   string
	ok     bool
	errors []string
	calls  int
}

func (s *stubVerifier) Name() string        { return s.name }
func (s *stubVerifier) Description() string { return "stub " + s.name }

func (s *stubVerifier) Process(_ *inheritance.Map, _ *mappings.Mappings, sink *Sink) bool {
	s.calls++
	for _, e := range s.errors {
		sink.Errorf("%s", e)
	}
	return s.ok
}

func TestEngineRunOrdersByName(t *testing.T) {
	engine := &Engine{Verifiers: []Verifier{
		&stubVerifier{name: "zeta", ok: true},
		&stubVerifier{name: "alpha", ok: true},
		&stubVerifier{name: "mid", ok: true},
	}}

	result := engine.Run(inheritance.NewMap(), buildMappings(t, ""))
	require.Len(t, result.Checks, 3)
	assert.Equal(t, "alpha", result.Checks[0].Name)
	assert.Equal(t, "mid", result.Checks[1].Name)
	assert.Equal(t, "zeta", result.Checks[2].Name)
	assert.True(t, result.OK)
	assert.Empty(t, result.Failed())
}

func TestEngineRunsEveryCheckAfterFailure(t *testing.T) {
	first := &stubVerifier{name: "a", ok: false, errors: []string{"boom"}}
	second := &stubVerifier{name: "b", ok: true}
	engine := &Engine{Verifiers: []Verifier{first, second}}

	result := engine.Run(inheritance.NewMap(), buildMappings(t, ""))
	assert.False(t, result.OK)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
	assert.Equal(t, []string{"a"}, result.Failed())

	diags := result.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "a", diags[0].Check)
	assert.Equal(t, "ERROR: boom", diags[0].String())
}

func TestEngineErrorDiagnosticFailsCheck(t *testing.T) {
	// reports an error but claims success
	liar := &stubVerifier{name: "liar", ok: true, errors: []string{"inconsistent"}}
	engine := &Engine{Verifiers: []Verifier{liar}}

	result := engine.Run(inheritance.NewMap(), buildMappings(t, ""))
	assert.False(t, result.OK)
	assert.False(t, result.Checks[0].OK)
}

func TestEngineNoVerifiers(t *testing.T) {
	result := (&Engine{}).Run(inheritance.NewMap(), buildMappings(t, ""))
	assert.True(t, result.OK)
	assert.Empty(t, result.Checks)
}

func TestEngineLogsProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	engine := &Engine{
		Verifiers: []Verifier{&stubVerifier{name: "quiet", ok: true}},
		Logger:    logger,
	}

	engine.Run(inheritance.NewMap(), buildMappings(t, ""))
	assert.Contains(t, buf.String(), "Processing: quiet")
	assert.Contains(t, buf.String(), "quiet: Passed")
}

func TestEngineParallelMatchesSerial(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Base").Method("m", "()V").Field("a", "I"),
		classfiletest.Class("Sub").Extends("Base").Method("m", "()V").Field("b", "J"),
		classfiletest.Class("Other").Method("<init>", "(I)V"),
	)
	m := buildMappings(t,
		"Base Base\n\tm ()V func_1_m\n\ta field_2_a\n"+
			"Sub Sub\n\tm ()V func_3_m\n\tb field_2_a\n"+
			"Other Other\n\t<init> (I)V <init>\n\t\t1 p_i1_1_\n")

	serial := (&Engine{Verifiers: Builtin()}).Run(inh, m)
	parallel := (&Engine{Verifiers: Builtin(), Parallel: true}).Run(inh, m)

	assert.False(t, serial.OK)
	assert.Equal(t, serial.OK, parallel.OK)
	assert.Equal(t, serial.Failed(), parallel.Failed())
	assert.Equal(t, serial.Diagnostics(), parallel.Diagnostics())
}

func TestSelect(t *testing.T) {
	all, err := Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, len(Builtin()))

	selected, err := Select([]string{" unique-ids ", "unique-ids"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "unique-ids", selected[0].Name())

	_, err = Select([]string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check: nope")
	assert.Contains(t, err.Error(), "override-names, unique-ids")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"override-names", "unique-ids"}, Names())
}

func TestSinkSeverities(t *testing.T) {
	sink := NewSink("demo")
	sink.Infof("loaded %d", 3)
	sink.Warnf("odd")
	assert.False(t, sink.HasErrors())

	sink.Errorf("bad %s", "thing")
	assert.True(t, sink.HasErrors())

	var lines []string
	for _, d := range sink.Diagnostics() {
		assert.Equal(t, "demo", d.Check)
		lines = append(lines, d.String())
	}
	assert.Equal(t, []string{"INFO: loaded 3", "WARNING: odd", "ERROR: bad thing"}, lines)
}
