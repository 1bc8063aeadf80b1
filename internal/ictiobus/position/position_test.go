package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Set_AddContains(t *testing.T) {
	testCases := []struct {
		name  string
		adds  []int
		check int
		want  bool
	}{
		{name: "empty set contains nothing", adds: nil, check: 1, want: false},
		{name: "added position is contained", adds: []int{1, 5, 9}, check: 5, want: true},
		{name: "un-added position is not contained", adds: []int{1, 5, 9}, check: 6, want: false},
		{name: "position 0 is never stored", adds: []int{0}, check: 0, want: false},
		{name: "position beyond capacity is silently dropped", adds: []int{MaxPositions + 1}, check: MaxPositions + 1, want: false},
		{name: "position at capacity is stored", adds: []int{MaxPositions}, check: MaxPositions, want: true},
		{name: "negative position is silently dropped", adds: []int{-3}, check: -3, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var s Set
			for _, p := range tc.adds {
				s.Add(p)
			}
			assert.Equal(t, tc.want, s.Contains(tc.check))
		})
	}
}

func Test_Set_IsEmpty(t *testing.T) {
	var s Set
	assert.True(t, s.IsEmpty())

	s.Add(42)
	assert.False(t, s.IsEmpty())
}

func Test_Set_UnionInto(t *testing.T) {
	var a, b, dst Set
	a.Add(1)
	a.Add(2)
	b.Add(2)
	b.Add(3)

	UnionInto(&dst, &a, &b)

	assert.True(t, dst.Contains(1))
	assert.True(t, dst.Contains(2))
	assert.True(t, dst.Contains(3))
	assert.False(t, dst.Contains(4))
}

func Test_Set_UnionInto_AliasesDest(t *testing.T) {
	var a, b Set
	a.Add(1)
	b.Add(2)

	// dst aliases a; must not lose a's own bits mid-computation.
	UnionInto(&a, &a, &b)

	assert.True(t, a.Contains(1))
	assert.True(t, a.Contains(2))
}

func Test_Set_Equal(t *testing.T) {
	var a, b Set
	a.Add(1)
	a.Add(10)
	b.Add(10)
	b.Add(1)

	assert.True(t, Equal(&a, &b))

	b.Add(11)
	assert.False(t, Equal(&a, &b))
}

func Test_Set_AssignmentCopies(t *testing.T) {
	var a Set
	a.Add(1)

	b := a
	b.Add(2)

	assert.False(t, a.Contains(2), "assigning a Set must duplicate its bits, not alias them")
	assert.True(t, b.Contains(2))
}

func Test_Set_Elements(t *testing.T) {
	var s Set
	s.Add(5)
	s.Add(1)
	s.Add(3)

	assert.Equal(t, []int{1, 3, 5}, s.Elements())
}

func Test_Set_Init(t *testing.T) {
	var s Set
	s.Add(1)
	s.Init()
	assert.True(t, s.IsEmpty())
}
