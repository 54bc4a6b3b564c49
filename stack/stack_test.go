package stack

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCard struct{ V int }

func (c fakeCard) Serialize() string { return fmt.Sprintf("crd|%d|\n", c.V) }

func decodeFakeCard(s string) (fakeCard, error) {
	var v int
	if _, err := fmt.Sscanf(s, "crd|%d|", &v); err != nil {
		return fakeCard{}, err
	}
	return fakeCard{V: v}, nil
}

func TestStackSerializeRoundTrip(t *testing.T) {
	s := New[fakeCard]()
	s.Push(fakeCard{1})
	s.Push(fakeCard{2})
	s.Push(fakeCard{3})
	require.Equal(t, 3, s.Len())

	parsed, err := ParseStack(stripNL(s.Serialize()), decodeFakeCard)
	require.NoError(t, err)
	require.Equal(t, s.Cards, parsed.Cards)
}

func TestStackPushCapsAtMaxCards(t *testing.T) {
	s := New[fakeCard]()
	for i := 0; i < 200; i++ {
		s.Push(fakeCard{i})
	}
	require.LessOrEqual(t, s.Len(), 128)
}

func TestOpenStackSerializeRoundTrip(t *testing.T) {
	s := NewOpenStack[fakeCard]()
	s.Push(1, fakeCard{10})
	s.Push(2, fakeCard{20})

	parsed, err := ParseOpenStack(stripNL(s.Serialize()), decodeFakeCard)
	require.NoError(t, err)
	require.Equal(t, s.Types, parsed.Types)
	require.Equal(t, s.Cards, parsed.Cards)
}

func decodeFakeSecret(s string) (fakeCard, error) { return decodeFakeCard(s) }

func TestStackSecretSerializeRoundTrip(t *testing.T) {
	ss := &StackSecret[fakeCard]{Entries: []Secret[fakeCard]{
		{Index: 2, Secret: fakeCard{7}},
		{Index: 0, Secret: fakeCard{8}},
		{Index: 1, Secret: fakeCard{9}},
	}}
	parsed, err := ParseStackSecret(stripNL(ss.Serialize()), decodeFakeSecret)
	require.NoError(t, err)
	require.Equal(t, ss.Entries, parsed.Entries)
	require.Equal(t, []int{2, 0, 1}, ss.Permutation())
}

func TestParseStackRejectsMalformed(t *testing.T) {
	_, err := ParseStack[fakeCard]("stk^bogus", decodeFakeCard)
	require.Error(t, err)

	_, err = ParseStack[fakeCard]("stk^2^crd|1|^", decodeFakeCard)
	require.Error(t, err) // declares 2 entries but only carries 1
}
