package sqrt

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModPrimeThreeMod4(t *testing.T) {
	p := big.NewInt(11) // p mod 8 = 3
	a := big.NewInt(3)  // 5^2 = 25 = 3 mod 11
	r := ModPrime(a, p)
	require.NotZero(t, r.Sign())
	check := new(big.Int).Mul(r, r)
	check.Mod(check, p)
	require.Equal(t, a, check)
}

func TestModPrimeFiveMod8(t *testing.T) {
	p := big.NewInt(13) // p mod 8 = 5
	a := big.NewInt(4)  // 2^2 = 4
	r := ModPrime(a, p)
	check := new(big.Int).Mul(r, r)
	check.Mod(check, p)
	require.Equal(t, a, check)
}

func TestModPrimeOneMod8TonelliShanks(t *testing.T) {
	p := big.NewInt(17) // p mod 8 = 1
	a := big.NewInt(2)  // 6^2 = 36 = 2 mod 17
	r := ModPrime(a, p)
	check := new(big.Int).Mul(r, r)
	check.Mod(check, p)
	require.Equal(t, a, check)
}

func TestModPrimeNonResidue(t *testing.T) {
	p := big.NewInt(11)
	require.Equal(t, big.NewInt(0), ModPrime(big.NewInt(2), p)) // 2 is a non-residue mod 11
}

func TestQRMNAndRoots(t *testing.T) {
	p, q := big.NewInt(11), big.NewInt(19)
	n := new(big.Int).Mul(p, q)
	a := big.NewInt(4) // a perfect square, QR mod both primes
	require.True(t, QRMN(a, p, q))

	roots := Roots(a, p, q, n)
	require.Len(t, roots, 4)
	for _, r := range roots {
		sq := new(big.Int).Mul(r, r)
		sq.Mod(sq, n)
		require.Equal(t, a, sq)
	}
}

func TestFastBlumRootMatchesRoots(t *testing.T) {
	p, q := big.NewInt(11), big.NewInt(19) // both ≡ 3 (mod 4)
	n := new(big.Int).Mul(p, q)
	a := big.NewInt(4)

	pPlus1Div4 := new(big.Int).Rsh(new(big.Int).Add(p, one), 2)
	qPlus1Div4 := new(big.Int).Rsh(new(big.Int).Add(q, one), 2)
	u := new(big.Int).ModInverse(p, q)
	v := new(big.Int).ModInverse(q, p)
	up := new(big.Int).Mul(u, p)
	vq := new(big.Int).Mul(v, q)

	root := FastBlumRoot(a, p, q, pPlus1Div4, qPlus1Div4, up, vq, n)
	sq := new(big.Int).Mul(root, root)
	sq.Mod(sq, n)
	require.Equal(t, a, sq)

	found := false
	for _, cand := range Roots(a, p, q, n) {
		if cand.Cmp(root) == 0 {
			found = true
		}
	}
	require.True(t, found)
}
