// Package sqrt implements modular square-root extraction: the
// Adleman-Manders-Miller algorithm modulo a prime, its Blum-integer
// shortcut modulo a product of two primes ≡3 (mod 4), and the associated
// quadratic-residuosity test used throughout the Schindelhauer encoding.
package sqrt

import "math/big"

var (
	zero  = big.NewInt(0)
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
	five  = big.NewInt(5)
	eight = big.NewInt(8)
)

// ModPrime returns a square root of a modulo the prime p using
// Adleman-Manders-Miller, branching on p mod 8. It returns 0 if a is not a
// quadratic residue mod p.
func ModPrime(a, p *big.Int) *big.Int {
	a = new(big.Int).Mod(a, p)
	if a.Sign() == 0 {
		return big.NewInt(0)
	}
	if big.Jacobi(a, p) != 1 {
		return big.NewInt(0)
	}

	switch new(big.Int).Mod(p, eight).Int64() {
	case 3, 7:
		// p ≡ 3 (mod 4): r = a^((p+1)/4) mod p
		e := new(big.Int).Add(p, one)
		e.Rsh(e, 2)
		return new(big.Int).Exp(a, e, p)
	case 5:
		// p ≡ 5 (mod 8)
		e := new(big.Int).Sub(p, five)
		e.Rsh(e, 3)
		d := new(big.Int).Exp(a, e, p)
		ad := new(big.Int).Mul(a, d)
		ad.Mod(ad, p)
		adSq := new(big.Int).Mul(ad, d)
		adSq.Mod(adSq, p)
		if adSq.Cmp(one) == 0 {
			return ad
		}
		// a·d² ≡ -1: r = 2a·(4a)^((p-5)/8) mod p
		four_a := new(big.Int).Mul(four, a)
		four_a.Mod(four_a, p)
		r := new(big.Int).Exp(four_a, e, p)
		r.Mul(r, two)
		r.Mul(r, a)
		r.Mod(r, p)
		return r
	default:
		// p ≡ 1 (mod 8): Tonelli-Shanks general case.
		return tonelliShanks(a, p)
	}
}

func tonelliShanks(a, p *big.Int) *big.Int {
	// write p-1 = q*2^s with q odd
	q := new(big.Int).Sub(p, one)
	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}
	// find a quadratic non-residue z
	z := big.NewInt(2)
	for big.Jacobi(z, p) != -1 {
		z.Add(z, one)
	}
	m := s
	c := new(big.Int).Exp(z, q, p)
	t := new(big.Int).Exp(a, q, p)
	qPlus1Over2 := new(big.Int).Add(q, one)
	qPlus1Over2.Rsh(qPlus1Over2, 1)
	r := new(big.Int).Exp(a, qPlus1Over2, p)

	for t.Cmp(one) != 0 {
		// find least i, 0<i<m, t^(2^i)=1
		i := 0
		tt := new(big.Int).Set(t)
		for tt.Cmp(one) != 0 {
			tt.Mul(tt, tt)
			tt.Mod(tt, p)
			i++
			if i == m {
				return big.NewInt(0)
			}
		}
		b := new(big.Int).Exp(c, new(big.Int).Lsh(one, uint(m-i-1)), p)
		m = i
		c = new(big.Int).Mul(b, b)
		c.Mod(c, p)
		t.Mul(t, c)
		t.Mod(t, p)
		r.Mul(r, b)
		r.Mod(r, p)
	}
	return r
}

// QRMN reports whether a is a quadratic residue modulo n = p*q, i.e. a QR
// mod both p and q (spec.md §4.1's qrmn predicate).
func QRMN(a, p, q *big.Int) bool {
	return big.Jacobi(a, p) == 1 && big.Jacobi(a, q) == 1
}

// Roots computes the (up to) four square roots of a modulo n = p*q via CRT
// from the prime-side roots and their negations. Returns nil if a is not a
// residue modulo one of the primes.
func Roots(a, p, q, n *big.Int) []*big.Int {
	rp := ModPrime(a, p)
	rq := ModPrime(a, q)
	if rp.Sign() == 0 || rq.Sign() == 0 {
		return nil
	}
	// CRT combine (rp, rq) and (rp, -rq) ; the other two roots are their
	// negations mod n.
	r1 := crt(rp, rq, p, q, n)
	r2 := crt(rp, new(big.Int).Neg(rq), p, q, n)
	r1.Mod(r1, n)
	r2.Mod(r2, n)
	negR1 := new(big.Int).Sub(n, r1)
	negR2 := new(big.Int).Sub(n, r2)
	return []*big.Int{r1, negR1, r2, negR2}
}

func crt(rp, rq, p, q, n *big.Int) *big.Int {
	// x ≡ rp (mod p), x ≡ rq (mod q)
	u := new(big.Int).ModInverse(p, q)
	if u == nil {
		u = big.NewInt(0)
	}
	v := new(big.Int).ModInverse(q, p)
	if v == nil {
		v = big.NewInt(0)
	}
	up := new(big.Int).Mul(u, p) // u*p ≡ 1 (mod q), ≡0 (mod p)
	vq := new(big.Int).Mul(v, q) // v*q ≡ 1 (mod p), ≡0 (mod q)
	x := new(big.Int).Mul(rq, up)
	x.Add(x, new(big.Int).Mul(rp, vq))
	x.Mod(x, n)
	return x
}

// FastBlumRoot computes a square root of a modulo the Blum integer n = p*q
// (both p,q ≡3 mod 4) using the precomputed shortcuts (p+1)/4, (q+1)/4, u*p,
// v*q where u*p+v*q=1 — the fast path spec.md §4.1 calls out explicitly.
// It returns the principal root among the four (the one that is itself a
// QR mod n when that matters is left to the caller).
func FastBlumRoot(a, p, q, pPlus1Div4, qPlus1Div4, up, vq, n *big.Int) *big.Int {
	rp := new(big.Int).Exp(a, pPlus1Div4, p)
	rq := new(big.Int).Exp(a, qPlus1Div4, q)
	x := new(big.Int).Mul(rq, up)
	x.Add(x, new(big.Int).Mul(rp, vq))
	x.Mod(x, n)
	return x
}

// FastBlumRoots returns all four roots using the fast Blum path.
func FastBlumRoots(a, p, q, pPlus1Div4, qPlus1Div4, up, vq, n *big.Int) []*big.Int {
	r1 := FastBlumRoot(a, p, q, pPlus1Div4, qPlus1Div4, up, vq, n)
	negA := new(big.Int).Neg(a)
	negA.Mod(negA, n)
	r2 := FastBlumRoot(negA, p, q, pPlus1Div4, qPlus1Div4, up, vq, n)
	return []*big.Int{r1, new(big.Int).Sub(n, r1).Mod(new(big.Int).Sub(n, r1), n), r2, new(big.Int).Sub(n, r2).Mod(new(big.Int).Sub(n, r2), n)}
}
