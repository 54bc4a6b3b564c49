package tmcg

import (
	"bufio"
	"io"
	"testing"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/stack"
	"github.com/stretchr/testify/require"
)

func testFacade(t *testing.T, n int) *SchindelhauerTMCG {
	t.Helper()
	keys := make([]*key.PublicKey, n)
	for i := range keys {
		sk, err := key.GenerateSecretKey("player", "player@example.com", 512)
		require.NoError(t, err)
		keys[i] = sk.Public()
	}
	tm := New(keys, 4)
	tm.SecurityLevel = 4 // keep the test transcript short
	return tm
}

func TestFacadeCreateAndTypeRoundTrip(t *testing.T) {
	tm := testFacade(t, 2)
	_, cs, err := tm.CreatePrivateCard(1, 7)
	require.NoError(t, err)
	require.Equal(t, 7, tm.TypeOfCard(cs))
}

func TestFacadePrivateCardProof(t *testing.T) {
	tm := testFacade(t, 2)
	c, cs, err := tm.CreatePrivateCard(0, 5)
	require.NoError(t, err)

	pw, vr := io.Pipe()
	vw, pr := io.Pipe()
	errCh := make(chan error, 1)
	go func() {
		errCh <- tm.ProvePrivateCard(pw, bufio.NewReader(pr), c, cs, 0)
		pw.Close()
	}()
	ok := tm.VerifyPrivateCard(vw, bufio.NewReader(vr), c, 0)
	vw.Close()
	require.NoError(t, <-errCh)
	require.True(t, ok)
}

func TestFacadeShuffleRoundTrip(t *testing.T) {
	tm := testFacade(t, 2)

	s := stack.New[*card.Card]()
	for i := 0; i < 3; i++ {
		s.Push(tm.CreateOpenCard(i))
	}

	ss, err := tm.CreateStackSecret(false, 3)
	require.NoError(t, err)
	require.Equal(t, 3, ss.Len())

	mixed := tm.MixStack(s, ss)
	require.Equal(t, 3, mixed.Len())
}
