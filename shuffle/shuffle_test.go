package shuffle

import (
	"bufio"
	"io"
	"testing"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/stack"
	"github.com/stretchr/testify/require"
)

func testKeys(t *testing.T, n int) []*key.PublicKey {
	t.Helper()
	keys := make([]*key.PublicKey, n)
	for i := range keys {
		sk, err := key.GenerateSecretKey("player", "player@example.com", 512)
		require.NoError(t, err)
		keys[i] = sk.Public()
	}
	return keys
}

func buildStack(t *testing.T, keys []*key.PublicKey, size int) *stack.Stack[*card.Card] {
	t.Helper()
	s := stack.New[*card.Card]()
	for i := 0; i < size; i++ {
		s.Push(card.CreateOpenCard(keys, i, 4))
	}
	return s
}

func TestMixStackIsPermutation(t *testing.T) {
	keys := testKeys(t, 2)
	ops := &CardOps{Keys: keys, W: 4}
	s := buildStack(t, keys, 5)

	ss, err := CreateStackSecret[*card.Card, *card.Secret](ops, false, 5)
	require.NoError(t, err)
	require.Equal(t, 5, ss.Len())

	mixed := MixStack[*card.Card, *card.Secret](ops, s, ss)
	require.Equal(t, s.Len(), mixed.Len())
}

func TestCyclicPermutationIsShift(t *testing.T) {
	keys := testKeys(t, 2)
	ops := &CardOps{Keys: keys, W: 4}

	ss, err := CreateStackSecret[*card.Card, *card.Secret](ops, true, 6)
	require.NoError(t, err)
	require.True(t, isCyclicShift(ss))
}

func TestGlueStackSecretMatchesSequentialMix(t *testing.T) {
	keys := testKeys(t, 2)
	ops := &CardOps{Keys: keys, W: 4}
	s := buildStack(t, keys, 4)

	sigma, err := CreateStackSecret[*card.Card, *card.Secret](ops, false, 4)
	require.NoError(t, err)
	pi, err := CreateStackSecret[*card.Card, *card.Secret](ops, false, 4)
	require.NoError(t, err)

	sequential := MixStack[*card.Card, *card.Secret](ops, MixStack[*card.Card, *card.Secret](ops, s, sigma), pi)
	joint := GlueStackSecret[*card.Card, *card.Secret](ops, sigma, pi)
	direct := MixStack[*card.Card, *card.Secret](ops, s, joint)

	require.Equal(t, sequential.Serialize(), direct.Serialize())
}

func TestStackEqualityProof(t *testing.T) {
	keys := testKeys(t, 2)
	ops := &CardOps{Keys: keys, W: 4}
	s := buildStack(t, keys, 4)

	ss, err := CreateStackSecret[*card.Card, *card.Secret](ops, false, 4)
	require.NoError(t, err)
	sPrime := MixStack[*card.Card, *card.Secret](ops, s, ss)

	pw, vr := io.Pipe()
	vw, pr := io.Pipe()
	proverW, proverR := pw, bufio.NewReader(pr)
	verifierW, verifierR := vw, bufio.NewReader(vr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- ProveStackEquality[*card.Card, *card.Secret](proverW, proverR, ops, s, sPrime, ss, false, 4)
		proverW.Close()
	}()
	ok := VerifyStackEquality[*card.Card, *card.Secret](verifierW, verifierR, ops, s, sPrime, card.ParseCard, card.ParseSecret, false, 4)
	verifierW.Close()
	require.NoError(t, <-errCh)
	require.True(t, ok)
}
