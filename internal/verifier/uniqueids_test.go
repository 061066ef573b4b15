package verifier

import (
	"strings"
	"testing"

	"github.com/mabhi256/mapverify/internal/classfile"
	"github.com/mabhi256/mapverify/internal/classfile/classfiletest"
	"github.com/mabhi256/mapverify/internal/inheritance"
	"github.com/mabhi256/mapverify/internal/mappings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMap(t *testing.T, classes ...*classfiletest.Builder) *inheritance.Map {
	t.Helper()
	m := inheritance.NewMap()
	for _, b := range classes {
		cls, err := classfile.Parse("test", b.Bytes())
		require.NoError(t, err)
		m.Add(cls)
	}
	return m
}

func buildMappings(t *testing.T, tsrg string) *mappings.Mappings {
	t.Helper()
	m, err := mappings.Parse(strings.NewReader(tsrg), mappings.FormatTSRG, "test.tsrg")
	require.NoError(t, err)
	return m
}

func runUniqueIDs(inh *inheritance.Map, m *mappings.Mappings) (bool, []string) {
	sink := NewSink("unique-ids")
	ok := (&UniqueIDs{}).Process(inh, m, sink)

	var lines []string
	for _, d := range sink.Diagnostics() {
		lines = append(lines, d.String())
	}
	return ok, lines
}

func TestUniqueIDsSingleField(t *testing.T) {
	inh := buildMap(t, classfiletest.Class("Foo").Field("a", "I"))
	m := buildMappings(t, "Foo Foo\n\ta field_100_a\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.True(t, ok)
	assert.Empty(t, lines)
}

func TestUniqueIDsFieldAndMethodShareID(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Field("a", "I"),
		classfiletest.Class("Bar").Method("b", "()V"),
	)
	m := buildMappings(t, "Foo Foo\n\ta field_100_a\nBar Bar\n\tb ()V func_100_b\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.False(t, ok)
	assert.Equal(t, []string{
		"ERROR: Duplicate ID: 100 (field_100_a, func_100_b)",
		"ERROR:     field_100_a (a)",
		"ERROR:     func_100_b (b ()V)",
	}, lines)
}

func TestUniqueIDsReferenceArgumentsAreEquivalent(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Method("a", "(Ljava/lang/String;)V"),
		classfiletest.Class("Bar").Method("a", "(Ljava/util/List;)V"),
	)
	m := buildMappings(t,
		"Foo Foo\n\ta (Ljava/lang/String;)V func_200_a\n"+
			"Bar Bar\n\ta (Ljava/util/List;)V func_200_a\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.True(t, ok)
	assert.Empty(t, lines)
}

func TestUniqueIDsPrimitiveArgumentMismatch(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Method("a", "(I)V"),
		classfiletest.Class("Bar").Method("a", "(J)V"),
	)
	m := buildMappings(t, "Foo Foo\n\ta (I)V func_200_a\nBar Bar\n\ta (J)V func_200_a\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.False(t, ok)
	require.Len(t, lines, 2)
	assert.Equal(t, "ERROR: Duplicate ID: 200 (func_200_a)", lines[0])
	assert.Equal(t, "ERROR:     func_200_a (a (I)V, a (J)V)", lines[1])
}

func TestUniqueIDsSameSizePrimitiveMismatch(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Method("a", "(I)V"),
		classfiletest.Class("Bar").Method("a", "(F)V"),
	)
	m := buildMappings(t, "Foo Foo\n\ta (I)V func_200_a\nBar Bar\n\ta (F)V func_200_a\n")

	ok, _ := runUniqueIDs(inh, m)
	assert.False(t, ok)
}

func TestUniqueIDsArgumentCountMismatch(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Method("a", "(Ljava/lang/Object;)V"),
		classfiletest.Class("Bar").Method("a", "(Ljava/lang/Object;Ljava/lang/Object;)V"),
	)
	m := buildMappings(t,
		"Foo Foo\n\ta (Ljava/lang/Object;)V func_7_a\n"+
			"Bar Bar\n\ta (Ljava/lang/Object;Ljava/lang/Object;)V func_7_a\n")

	ok, _ := runUniqueIDs(inh, m)
	assert.False(t, ok)
}

func TestUniqueIDsReturnTypeMismatch(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Method("a", "()Ljava/lang/Object;"),
		classfiletest.Class("Bar").Method("a", "()[Ljava/lang/Object;"),
	)
	m := buildMappings(t,
		"Foo Foo\n\ta ()Ljava/lang/Object; func_8_a\n"+
			"Bar Bar\n\ta ()[Ljava/lang/Object; func_8_a\n")

	ok, _ := runUniqueIDs(inh, m)
	assert.False(t, ok)
}

func TestUniqueIDsRepeatedFieldIsNotAConflict(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Field("a", "I"),
		classfiletest.Class("Bar").Field("a", "I"),
		classfiletest.Class("Baz").Field("a", "J"),
	)
	m := buildMappings(t,
		"Foo Foo\n\ta field_100_a\nBar Bar\n\ta field_100_a\nBaz Baz\n\ta field_100_a\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.True(t, ok)
	assert.Empty(t, lines)
}

func TestUniqueIDsDifferentFieldsSameDesignator(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Field("a", "I"),
		classfiletest.Class("Bar").Field("b", "I"),
	)
	m := buildMappings(t, "Foo Foo\n\ta field_100_x\nBar Bar\n\tb field_100_x\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.False(t, ok)
	assert.Equal(t, "ERROR:     field_100_x (a, b)", lines[1])
}

func TestUniqueIDsCrossSpaceOverlap(t *testing.T) {
	inh := buildMap(t, classfiletest.Class("Foo").
		Field("a", "I").
		Method("<init>", "(I)V"))
	m := buildMappings(t,
		"Foo Foo\n\ta field_500_a\n\t<init> (I)V <init>\n\t\t1 p_i500_1_\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.False(t, ok)
	assert.Equal(t, []string{
		"ERROR: Duplicate ID between parameter table and method table",
		"ERROR:     500 (field_500_a, p_i500)",
	}, lines)
}

func TestUniqueIDsParameters(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").
			Method("<init>", "(IJI)V").
			MethodAccess(classfile.AccStatic, "s", "(I)V"),
		classfiletest.Class("Bar").Method("<init>", "(I)V"),
	)

	// every parameter of one constructor shares the same designator
	m := buildMappings(t,
		"Foo Foo\n\t<init> (IJI)V <init>\n\t\t1 p_i300_1_\n\t\t2 p_i300_2_\n\t\t4 p_i300_4_\n"+
			"\ts (I)V s\n\t\t0 p_301_0_\n"+
			"Bar Bar\n\t<init> (I)V <init>\n\t\t1 p_i302_1_\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.True(t, ok)
	assert.Empty(t, lines)
}

func TestUniqueIDsParameterIDReusedByIncompatibleMethods(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Method("<init>", "(I)V"),
		classfiletest.Class("Bar").Method("<init>", "(J)V"),
	)
	m := buildMappings(t,
		"Foo Foo\n\t<init> (I)V <init>\n\t\t1 p_i300_1_\n"+
			"Bar Bar\n\t<init> (J)V <init>\n\t\t1 p_i300_1_\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.False(t, ok)
	assert.Equal(t, "ERROR: Duplicate ID: 300 (p_i300)", lines[0])
}

func TestUniqueIDsIgnoresParametersOfGeneratedMethods(t *testing.T) {
	inh := buildMap(t, classfiletest.Class("Foo").
		Field("a", "I").
		Method("b", "(I)V"))
	m := buildMappings(t, "Foo Foo\n\ta field_10_a\n\tb (I)V func_11_b\n\t\t1 p_10_1_\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.True(t, ok)
	assert.Empty(t, lines)
}

func TestUniqueIDsUnmappedMembersKeepOwnName(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Field("a", "I"),
		classfiletest.Class("Unmapped").Field("field_1_x", "I").Method("m", "()V"),
		classfiletest.Class("Other").Field("field_1_y", "I"),
	)
	m := buildMappings(t, "Foo Foo\n\ta field_100_a\n")

	// neither class is mapped, so both generated-looking names claim ID 1 as is
	ok, lines := runUniqueIDs(inh, m)
	assert.False(t, ok)
	assert.Equal(t, []string{
		"ERROR: Duplicate ID: 1 (field_1_x, field_1_y)",
		"ERROR:     field_1_x (field_1_x)",
		"ERROR:     field_1_y (field_1_y)",
	}, lines)
}

func TestUniqueIDsParameterOutsideArgumentSlots(t *testing.T) {
	inh := buildMap(t, classfiletest.Class("Foo").
		Field("a", "I").
		Method("<init>", "(I)V"))
	// slot 0 of an instance constructor is the receiver, not an argument
	m := buildMappings(t,
		"Foo Foo\n\ta field_500_a\n\t<init> (I)V <init>\n\t\t0 p_i500_0_\n")

	id, found := m.Info("Foo").ParamID("<init>", "(I)V")
	require.True(t, found)
	require.Equal(t, 500, id)

	ok, lines := runUniqueIDs(inh, m)
	assert.False(t, ok)
	assert.Equal(t, []string{
		"WARNING: Parameter p_i500_0_ mapped at slot 0, which is not an argument slot of Foo.<init>(I)V",
		"ERROR: Duplicate ID between parameter table and method table",
		"ERROR:     500 (field_500_a, p_i500)",
	}, lines)
}

func TestUniqueIDsParameterPastLastArgumentWarns(t *testing.T) {
	inh := buildMap(t, classfiletest.Class("Foo").Method("<init>", "(I)V"))
	m := buildMappings(t, "Foo Foo\n\t<init> (I)V <init>\n\t\t5 p_i42_5_\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.True(t, ok)
	assert.Equal(t, []string{
		"WARNING: Parameter p_i42_5_ mapped at slot 5, which is not an argument slot of Foo.<init>(I)V",
	}, lines)
}

func TestUniqueIDsFindingsSortedAndComplete(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Field("a", "I").Field("b", "I"),
		classfiletest.Class("Bar").Field("c", "I").Method("d", "()V"),
	)
	m := buildMappings(t,
		"Foo Foo\n\ta field_9_a\n\tb field_3_b\n"+
			"Bar Bar\n\tc field_9_c\n\td ()V func_3_d\n")

	ok, lines := runUniqueIDs(inh, m)
	assert.False(t, ok)
	require.Len(t, lines, 6)
	assert.Equal(t, "ERROR: Duplicate ID: 3 (field_3_b, func_3_d)", lines[0])
	assert.Equal(t, "ERROR: Duplicate ID: 9 (field_9_a, field_9_c)", lines[3])
}

func TestUniqueIDsIdempotent(t *testing.T) {
	inh := buildMap(t,
		classfiletest.Class("Foo").Field("a", "I").Method("b", "(I)V"),
		classfiletest.Class("Bar").Field("a", "I").Method("b", "(J)V"),
	)
	m := buildMappings(t,
		"Foo Foo\n\ta field_1_a\n\tb (I)V func_2_b\n"+
			"Bar Bar\n\ta field_2_a\n\tb (J)V func_1_b\n")

	ok1, first := runUniqueIDs(inh, m)
	ok2, second := runUniqueIDs(inh, m)
	assert.False(t, ok1)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestConflicting(t *testing.T) {
	tests := []struct {
		name   string
		shapes []shape
		want   bool
	}{
		{"single", []shape{{"a"}}, false},
		{"field and method", []shape{{"a"}, {"b", "()V"}}, true},
		{"two fields", []shape{{"a"}, {"b"}}, true},
		{"renamed bridge", []shape{{"a", "(Ljava/lang/Object;)V"}, {"b", "(Ljava/lang/String;)V"}}, false},
		{"array dims", []shape{{"a", "([I)V"}, {"a", "([[I)V"}}, true},
		{"void vs int return", []shape{{"a", "()V"}, {"a", "()I"}}, true},
		{"bad descriptor", []shape{{"a", "()V"}, {"a", "(Q)V"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conflicting(tt.shapes))
		})
	}
}

func TestParseGenerated(t *testing.T) {
	tests := []struct {
		name string
		want Generated
	}{
		{"field_1234_a", Generated{GeneratedField, 1234}},
		{"func_77_b", Generated{GeneratedMethod, 77}},
		{"field_5", Generated{GeneratedField, 5}},
		{"field_abc_a", Generated{Kind: NotGenerated}},
		{"func_12x_a", Generated{Kind: NotGenerated}},
		{"p_i300_1_", Generated{Kind: NotGenerated}},
		{"myfield_1_a", Generated{Kind: NotGenerated}},
		{"func_99999999999999999999_a", Generated{Kind: NotGenerated}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseGenerated(tt.name))
		})
	}
}
