package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternDeduplicates(t *testing.T) {
	a := New()
	s1 := a.Intern("struct Pair_i32_i64")
	s2 := a.Intern("struct Pair_i32_i64")
	assert.Equal(t, s1, s2)
	assert.Equal(t, 1, a.Len())

	a.Intern("struct Box_i32")
	assert.Equal(t, 2, a.Len())
}

func TestZeroValueReady(t *testing.T) {
	var a Arena
	assert.Equal(t, "foo", a.Intern("foo"))
}
