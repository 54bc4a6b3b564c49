package mpint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPowMod(t *testing.T) {
	got := PowMod(big.NewInt(4), big.NewInt(13), big.NewInt(497))
	require.Equal(t, big.NewInt(445), got)
}

func TestInverseMod(t *testing.T) {
	inv := InverseMod(big.NewInt(3), big.NewInt(11))
	require.NotNil(t, inv)
	require.Equal(t, big.NewInt(4), inv) // 3*4 = 12 = 1 mod 11

	require.Nil(t, InverseMod(big.NewInt(2), big.NewInt(4)))
}

func TestIsSafePrime(t *testing.T) {
	require.True(t, IsSafePrime(big.NewInt(23), 20)) // (23-1)/2 = 11, prime
	require.False(t, IsSafePrime(big.NewInt(9), 20))
	require.False(t, IsSafePrime(big.NewInt(13), 20)) // (13-1)/2 = 6, not prime
}

func TestGenerateSafePrime(t *testing.T) {
	p, err := GenerateSafePrime(32, 20)
	require.NoError(t, err)
	require.True(t, IsSafePrime(p, 20))
	require.Equal(t, uint(1), p.Bit(0))
	require.Equal(t, uint(1), p.Bit(1)) // p ≡ 3 (mod 4)
}

func TestBitAndByteLen(t *testing.T) {
	n := big.NewInt(0b1011)
	require.Equal(t, uint(1), Bit(n, 0))
	require.Equal(t, uint(1), Bit(n, 1))
	require.Equal(t, uint(0), Bit(n, 2))
	require.Equal(t, 1, ByteLen(big.NewInt(200)))
	require.Equal(t, 2, ByteLen(big.NewInt(2000)))
}

func TestStrongRandomNumberRange(t *testing.T) {
	low, high := big.NewInt(10), big.NewInt(20)
	for i := 0; i < 50; i++ {
		n, err := StrongRandomNumber(low, high)
		require.NoError(t, err)
		require.True(t, n.Cmp(low) >= 0 && n.Cmp(high) <= 0)
	}

	_, err := StrongRandomNumber(big.NewInt(5), big.NewInt(4))
	require.ErrorIs(t, err, ErrEmptyRange)
}

func TestStrongRandomBits(t *testing.T) {
	n, err := StrongRandomBits(16)
	require.NoError(t, err)
	require.True(t, n.BitLen() <= 16)
}
