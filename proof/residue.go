package proof

import (
	"bufio"
	"errors"
	"io"
	"math/big"

	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/mpint"
	"github.com/schindelhauer/tmcg/sqrt"
)

// errNotResidue is returned when a prover is asked to exhibit a square
// root for a value that is not actually a quadratic residue modulo its
// own key -- a caller error, since ProveQuadraticResidue should only
// ever be invoked with a genuine QR.
var errNotResidue = errors.New("proof: value is not a quadratic residue modulo m")

// errNotInvertible is returned when a mask witness r turns out to share
// a factor with m -- astronomically unlikely for honestly sampled r,
// but checked rather than assumed.
var errNotInvertible = errors.New("proof: mask witness not invertible modulo m")

// ProveQuadraticResidue runs the prover's side of ProofQuadraticResidue:
// for each of rounds parallel Σ-protocol rounds, commit c=r² mod m,
// answer the verifier's challenge bit with r (b=0) or r·√t mod m (b=1).
// sk must hold the factorisation witnessing that t is indeed a QR.
func ProveQuadraticResidue(w io.Writer, r *bufio.Reader, sk *key.SecretKey, t *big.Int, rounds int) error {
	m := sk.M
	for i := 0; i < rounds; i++ {
		rho, err := mpint.StrongRandomNumber(two, new(big.Int).Sub(m, one))
		if err != nil {
			return err
		}
		c := new(big.Int).Mul(rho, rho)
		c.Mod(c, m)
		if err := writeInt(w, c); err != nil {
			return err
		}

		b, err := readBit(r)
		if err != nil {
			return err
		}
		var resp *big.Int
		if b == 0 {
			resp = rho
		} else {
			roots := sqrt.Roots(t, sk.P, sk.Q, m)
			if roots == nil {
				return errNotResidue
			}
			resp = new(big.Int).Mul(rho, roots[0])
			resp.Mod(resp, m)
		}
		if err := writeInt(w, resp); err != nil {
			return err
		}
	}
	return nil
}

// VerifyQuadraticResidue runs the verifier's side: for each round, read
// the commitment, send a random challenge bit, read the response, and
// check it squares to the commitment (b=0) or to commitment·t (b=1).
func VerifyQuadraticResidue(w io.Writer, r *bufio.Reader, pk *key.PublicKey, t *big.Int, rounds int) bool {
	m := pk.M
	for i := 0; i < rounds; i++ {
		c, err := readInt(r)
		if err != nil {
			return false
		}
		b, err := randomBit()
		if err != nil {
			return false
		}
		if err := writeBit(w, b); err != nil {
			return false
		}
		resp, err := readInt(r)
		if err != nil {
			return false
		}
		sq := new(big.Int).Mul(resp, resp)
		sq.Mod(sq, m)
		want := new(big.Int).Mod(c, m)
		if b == 1 {
			want.Mul(want, t)
			want.Mod(want, m)
		}
		if sq.Cmp(want) != 0 {
			return false
		}
	}
	return true
}

// ProveNonQuadraticResidue runs the factorisation-holder's side of
// ProofNonQuadraticResidue: for each round, read the verifier's
// commitment u = r²·t^b mod m and answer with a guess at b, decided
// using the known factorisation (QRMN). Soundness per round is 1/2: a
// dishonest party without the factorisation can only guess.
func ProveNonQuadraticResidue(w io.Writer, r *bufio.Reader, sk *key.SecretKey, rounds int) error {
	for i := 0; i < rounds; i++ {
		u, err := readInt(r)
		if err != nil {
			return err
		}
		guess := 0
		if !sqrt.QRMN(u, sk.P, sk.Q) {
			guess = 1
		}
		if err := writeBit(w, guess); err != nil {
			return err
		}
	}
	return nil
}

// VerifyNonQuadraticResidue runs the challenger's side: for each round,
// pick a fresh (r,b), send u=r²·t^b mod m, read the guess, and accept
// only if every round's guess matched b.
func VerifyNonQuadraticResidue(w io.Writer, r *bufio.Reader, m, t *big.Int, rounds int) bool {
	for i := 0; i < rounds; i++ {
		rho, err := mpint.StrongRandomNumber(two, new(big.Int).Sub(m, one))
		if err != nil {
			return false
		}
		b, err := randomBit()
		if err != nil {
			return false
		}
		u := new(big.Int).Mul(rho, rho)
		u.Mod(u, m)
		if b == 1 {
			u.Mul(u, t)
			u.Mod(u, m)
		}
		if err := writeInt(w, u); err != nil {
			return false
		}
		guess, err := readBit(r)
		if err != nil {
			return false
		}
		if guess != b {
			return false
		}
	}
	return true
}

// ProveNonQuadraticResiduePZK is the perfect-zero-knowledge variant using
// the key's own non-residue witness y as the fixed base instead of an
// arbitrary t: the verifier reveals (r,b) after reading the guess, so
// the match can be confirmed without relying on the prover's claim,
// letting a simulator reproduce an indistinguishable transcript without
// knowing p,q.
func ProveNonQuadraticResiduePZK(w io.Writer, r *bufio.Reader, sk *key.SecretKey, rounds int) error {
	for i := 0; i < rounds; i++ {
		if err := ProveNonQuadraticResidue(w, r, sk, 1); err != nil {
			return err
		}
		// consume the verifier's revealed (r,b)
		if _, err := readInt(r); err != nil {
			return err
		}
		if _, err := readBit(r); err != nil {
			return err
		}
	}
	return nil
}

// VerifyNonQuadraticResiduePZK runs the perfect-ZK challenger's side: it
// additionally reveals (r,b) after the prover's guess, so the equality
// can be checked directly rather than only trusting an internal match.
// Only m and the prover's public non-residue witness y are needed, so
// any verifier holding the prover's public key can run this side.
func VerifyNonQuadraticResiduePZK(w io.Writer, r *bufio.Reader, m, y *big.Int, rounds int) bool {
	for i := 0; i < rounds; i++ {
		rho, err := mpint.StrongRandomNumber(two, new(big.Int).Sub(m, one))
		if err != nil {
			return false
		}
		b, err := randomBit()
		if err != nil {
			return false
		}
		u := new(big.Int).Mul(rho, rho)
		u.Mod(u, m)
		if b == 1 {
			u.Mul(u, y)
			u.Mod(u, m)
		}
		if err := writeInt(w, u); err != nil {
			return false
		}
		guess, err := readBit(r)
		if err != nil {
			return false
		}
		if err := writeInt(w, rho); err != nil {
			return false
		}
		if err := writeBit(w, b); err != nil {
			return false
		}
		if guess != b {
			return false
		}
	}
	return true
}

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

func randomBit() (int, error) {
	n, err := mpint.StrongRandomNumber(big.NewInt(0), big.NewInt(1))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
