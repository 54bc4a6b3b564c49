package hashelem

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainIsDeterministicAndAdvances(t *testing.T) {
	c1 := NewChain([]byte("seed"))
	c2 := NewChain([]byte("seed"))
	require.Equal(t, c1.Next(), c2.Next())

	c3 := NewChain([]byte("seed"))
	first := c3.Next()
	second := c3.Next()
	require.NotEqual(t, first, second)
}

func TestNextIntBounded(t *testing.T) {
	c := NewChain([]byte("bits"))
	n := c.NextInt(10)
	require.True(t, n.BitLen() <= 10)
}

func TestElementZStarMCoprime(t *testing.T) {
	m := big.NewInt(35) // 5*7
	c := NewChain([]byte("zstar"))
	for i := 0; i < 20; i++ {
		e := ElementZStarM(c, m)
		require.NotZero(t, e.Sign())
		g := new(big.Int).GCD(nil, nil, e, m)
		require.Equal(t, big.NewInt(1), g)
	}
}

func TestElementZCircMJacobiPlusOne(t *testing.T) {
	m := big.NewInt(35)
	c := NewChain([]byte("zcirc"))
	for i := 0; i < 20; i++ {
		e := ElementZCircM(c, m)
		require.Equal(t, 1, big.Jacobi(e, m))
	}
}

func TestChallengeBitIsZeroOrOne(t *testing.T) {
	c := NewChain([]byte("bit"))
	for i := 0; i < 20; i++ {
		b := ChallengeBit(c)
		require.True(t, b == 0 || b == 1)
	}
}
