package desc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		sort Sort
		dims int
	}{
		{"I", Int, 0},
		{"V", Void, 0},
		{"Ljava/lang/String;", Object, 0},
		{"[[J", Array, 2},
		{"[Ljava/util/List;", Array, 1},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			typ, err := ParseType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.sort, typ.Sort)
			assert.Equal(t, tt.dims, typ.Dims)
			assert.Equal(t, tt.in, typ.String())
		})
	}

	elem, err := ParseType("[[Lfoo/Bar;")
	require.NoError(t, err)
	assert.Equal(t, "foo/Bar", elem.Elem.Internal)
}

func TestParseTypeErrors(t *testing.T) {
	for _, in := range []string{"", "Q", "Ljava/lang/String", "L;", "[V", "II"} {
		_, err := ParseType(in)
		assert.Error(t, err, in)
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("(IJ[Ljava/lang/String;D)Ljava/lang/Object;")
	require.NoError(t, err)

	require.Len(t, m.Args, 4)
	assert.Equal(t, Int, m.Args[0].Sort)
	assert.Equal(t, Long, m.Args[1].Sort)
	assert.Equal(t, Array, m.Args[2].Sort)
	assert.Equal(t, Double, m.Args[3].Sort)
	assert.Equal(t, Object, m.Return.Sort)

	// receiver(1) + I(1) + J(2) + array(1) + D(2) = 7, return 1
	assert.Equal(t, 7<<2|1, m.ArgumentsAndReturnSizes())
	assert.Equal(t, []int{1, 2, 4, 5}, m.ArgumentSlots(false))
	assert.Equal(t, []int{0, 1, 3, 4}, m.ArgumentSlots(true))
}

func TestParseMethodErrors(t *testing.T) {
	for _, in := range []string{"", "()", "(I", "I)V", "(V)V", "()VI", "(Q)V"} {
		_, err := ParseMethod(in)
		assert.Error(t, err, in)
	}
}

func TestArgumentAndReturnTypes(t *testing.T) {
	args, err := ArgumentTypes("()V")
	require.NoError(t, err)
	assert.Empty(t, args)

	ret, err := ReturnType("(I)[I")
	require.NoError(t, err)
	assert.Equal(t, Array, ret.Sort)
}

func TestRemap(t *testing.T) {
	upper := func(s string) string { return strings.ToUpper(s) }

	assert.Equal(t, "(ILA;[[LB/C;)LD;", Remap("(ILa;[[Lb/c;)Ld;", upper))
	assert.Equal(t, "I", Remap("I", upper))
	assert.Equal(t, "(Lbroken", Remap("(Lbroken", upper))
}

func TestSame(t *testing.T) {
	mustType := func(s string) Type {
		typ, err := ParseType(s)
		require.NoError(t, err)
		return typ
	}

	tests := []struct {
		a, b string
		same bool
	}{
		{"I", "I", true},
		{"I", "J", false},
		{"V", "V", true},
		{"V", "I", false},
		{"Ljava/lang/String;", "Ljava/util/List;", true},
		{"Ljava/lang/String;", "I", false},
		{"I", "Ljava/lang/Integer;", false},
		{"[I", "[I", true},
		{"[I", "[[I", false},
		{"[I", "[J", false},
		{"[Ljava/lang/String;", "[Ljava/lang/Object;", true},
		{"[Ljava/lang/String;", "Ljava/lang/Object;", false},
		{"Ljava/lang/Object;", "[Ljava/lang/Object;", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.same, Same(mustType(tt.a), mustType(tt.b)))
		})
	}
}
