// Package vtmf implements the Verifiable k-out-of-k Threshold Masking
// Function: a distributed ElGamal-like setup over a prime-order subgroup
// of Z*_p, in which the combined public key is the product of per-player
// contributions, each contributed value accompanied by a Schnorr proof of
// knowledge of its discrete log (spec.md §4.4). Implemented directly on
// math/big rather than wrapped behind a pluggable group interface — see
// DESIGN.md for why the teacher's kyber abstraction has no second
// implementation to earn its keep here.
package vtmf

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/schindelhauer/tmcg/mpint"
	"github.com/schindelhauer/tmcg/wire"
)

// Group is the shared VTMF domain parameters: a safe-prime-derived p,
// a prime subgroup order q | p-1, and a generator g of order q.
type Group struct {
	P, Q, G *big.Int
}

// GenerateGroup samples a fresh (p,q,g) with p = 2q+1 (a safe prime of
// the requested bit length, so q is one bit shorter), the standard construction used when
// no externally-agreed group is required.
func GenerateGroup(bits int) (*Group, error) {
	// a safe prime p has (p-1)/2 itself prime, which is exactly the
	// q we need for a prime-order subgroup of Z*_p of index 2.
	p, err := mpint.GenerateSafePrime(bits, 64)
	if err != nil {
		return nil, err
	}
	q := new(big.Int).Rsh(new(big.Int).Sub(p, one), 1)

	g, err := findGenerator(p, q)
	if err != nil {
		return nil, err
	}
	return &Group{P: p, Q: q, G: g}, nil
}

func findGenerator(p, q *big.Int) (*big.Int, error) {
	upper := new(big.Int).Sub(p, one)
	for {
		h, err := mpint.WeakRandomNumber(two, upper)
		if err != nil {
			return nil, err
		}
		// g = h^((p-1)/q) mod p; reject the trivial generator 1.
		exp := new(big.Int).Div(new(big.Int).Sub(p, one), q)
		g := new(big.Int).Exp(h, exp, p)
		if g.Cmp(one) == 0 {
			continue
		}
		return g, nil
	}
}

// Check validates that q divides p-1 and g has order q (g^q = 1, g != 1).
func (grp *Group) Check() bool {
	if !grp.P.ProbablyPrime(64) || !grp.Q.ProbablyPrime(64) {
		return false
	}
	pm1 := new(big.Int).Sub(grp.P, one)
	if new(big.Int).Mod(pm1, grp.Q).Sign() != 0 {
		return false
	}
	if grp.G.Cmp(one) == 0 {
		return false
	}
	gq := new(big.Int).Exp(grp.G, grp.Q, grp.P)
	return gq.Cmp(one) == 0
}

// Serialize renders the group as `vgp|p|q|g|`.
func (grp *Group) Serialize() string {
	w := wire.NewWriter("vgp|", '|')
	w.Int(grp.P)
	w.Int(grp.Q)
	w.Int(grp.G)
	return w.String()
}

// ParseGroup parses a `vgp|p|q|g|` record.
func ParseGroup(line string) (*Group, error) {
	r, err := wire.ParseRecord(line, "vgp|", '|')
	if err != nil {
		return nil, err
	}
	grp := &Group{}
	if grp.P, err = r.Int(); err != nil {
		return nil, err
	}
	if grp.Q, err = r.Int(); err != nil {
		return nil, err
	}
	if grp.G, err = r.Int(); err != nil {
		return nil, err
	}
	if !r.Done() {
		return nil, wire.ErrMalformed
	}
	return grp, nil
}

// KeyShare is a single player's long-lived VTMF contribution: the secret
// exponent x and its public value h = g^x. The Schnorr proof of knowledge
// of x is returned beside it by GenerateKeyShare, not stored in it.
type KeyShare struct {
	X *big.Int
	H *big.Int
}

// SchnorrProof is a commit/challenge/response transcript proving
// knowledge of the discrete log of H base G, non-interactively via
// Fiat-Shamir (challenge = H(transcript)).
type SchnorrProof struct {
	T *big.Int // commitment g^rho
	Z *big.Int // response rho + e*x mod q
}

// GenerateKeyShare samples a fresh private share and its Schnorr proof of
// knowledge.
func GenerateKeyShare(grp *Group) (*KeyShare, *SchnorrProof, error) {
	x, err := mpint.VeryStrongRandomNumber(one, new(big.Int).Sub(grp.Q, one), nil)
	if err != nil {
		return nil, nil, err
	}
	h := new(big.Int).Exp(grp.G, x, grp.P)

	rho, err := mpint.StrongRandomNumber(one, new(big.Int).Sub(grp.Q, one))
	if err != nil {
		return nil, nil, err
	}
	t := new(big.Int).Exp(grp.G, rho, grp.P)
	e := schnorrChallenge(grp, h, t)
	z := new(big.Int).Mul(e, x)
	z.Add(z, rho)
	z.Mod(z, grp.Q)

	return &KeyShare{X: x, H: h}, &SchnorrProof{T: t, Z: z}, nil
}

func schnorrChallenge(grp *Group, h, t *big.Int) *big.Int {
	hash := sha256.New()
	hash.Write(grp.P.Bytes())
	hash.Write(grp.Q.Bytes())
	hash.Write(grp.G.Bytes())
	hash.Write(h.Bytes())
	hash.Write(t.Bytes())
	sum := hash.Sum(nil)
	e := new(big.Int).SetBytes(sum)
	return e.Mod(e, grp.Q)
}

// VerifyKeyShare checks a player's proof of knowledge of the discrete log
// of h: g^z =?= t * h^e (mod p).
func VerifyKeyShare(grp *Group, h *big.Int, proof *SchnorrProof) bool {
	if h.Cmp(one) == 0 || h.Cmp(grp.P) >= 0 {
		return false
	}
	e := schnorrChallenge(grp, h, proof.T)
	lhs := new(big.Int).Exp(grp.G, proof.Z, grp.P)
	rhs := new(big.Int).Exp(h, e, grp.P)
	rhs.Mul(rhs, proof.T)
	rhs.Mod(rhs, grp.P)
	return lhs.Cmp(rhs) == 0
}

// Instance is a fully set up VTMF session: the group, this player's own
// share, and the combined public key accumulated from every player's
// published h_i (spec.md §3's "VTMF instance").
type Instance struct {
	Group        *Group
	OwnShare     *KeyShare
	CombinedKey  *big.Int
	PlayerShares []*big.Int // h_i in seat order, including our own
}

// NewInstance builds an Instance from this player's own share and the
// full seat-ordered list of published h_i values (already verified by the
// caller via VerifyKeyShare).
func NewInstance(grp *Group, own *KeyShare, hs []*big.Int) *Instance {
	combined := big.NewInt(1)
	for _, h := range hs {
		combined.Mul(combined, h)
		combined.Mod(combined, grp.P)
	}
	return &Instance{Group: grp, OwnShare: own, CombinedKey: combined, PlayerShares: hs}
}

// Mask applies additive ElGamal masking under the combined key:
// (c1, c2) -> (c1 * g^r, c2 * h^r).
func (vt *Instance) Mask(c1, c2 *big.Int, r *big.Int) (*big.Int, *big.Int) {
	gr := new(big.Int).Exp(vt.Group.G, r, vt.Group.P)
	hr := new(big.Int).Exp(vt.CombinedKey, r, vt.Group.P)
	nc1 := new(big.Int).Mul(c1, gr)
	nc1.Mod(nc1, vt.Group.P)
	nc2 := new(big.Int).Mul(c2, hr)
	nc2.Mod(nc2, vt.Group.P)
	return nc1, nc2
}

// EncryptType embeds a small type index m as g^m and masks it under the
// combined key with a fresh r, the VTMF analogue of CreateOpenCard for a
// publicly agreed type.
func (vt *Instance) EncryptType(m int64, r *big.Int) (*big.Int, *big.Int) {
	gm := new(big.Int).Exp(vt.Group.G, big.NewInt(m), vt.Group.P)
	return vt.Mask(big.NewInt(1), gm, r)
}

// Share is this player's partial decryption of c1 for a given card: d_i =
// c1^x_i mod p, accompanied by a Chaum-Pedersen proof that log_g(h_i) =
// log_c1(d_i).
type Share struct {
	D *big.Int
}

// RevealShare computes this player's decryption share of c1 and a
// Chaum-Pedersen equality-of-discrete-logs proof binding it to the
// player's own h_i.
func (vt *Instance) RevealShare(c1 *big.Int) (*Share, *ChaumPedersenProof, error) {
	d := new(big.Int).Exp(c1, vt.OwnShare.X, vt.Group.P)
	proof, err := proveChaumPedersen(vt.Group, c1, vt.OwnShare.H, d, vt.OwnShare.X)
	if err != nil {
		return nil, nil, err
	}
	return &Share{D: d}, proof, nil
}

// ChaumPedersenProof proves log_g(h) = log_c1(d) for a known exponent x
// without revealing x: commit (t1,t2) = (g^rho, c1^rho), challenge e,
// response z = rho + e*x mod q.
type ChaumPedersenProof struct {
	T1, T2 *big.Int
	Z      *big.Int
}

func proveChaumPedersen(grp *Group, c1, h, d, x *big.Int) (*ChaumPedersenProof, error) {
	rho, err := mpint.StrongRandomNumber(one, new(big.Int).Sub(grp.Q, one))
	if err != nil {
		return nil, err
	}
	t1 := new(big.Int).Exp(grp.G, rho, grp.P)
	t2 := new(big.Int).Exp(c1, rho, grp.P)
	e := chaumPedersenChallenge(grp, c1, h, d, t1, t2)
	z := new(big.Int).Mul(e, x)
	z.Add(z, rho)
	z.Mod(z, grp.Q)
	return &ChaumPedersenProof{T1: t1, T2: t2, Z: z}, nil
}

// VerifyShare checks a revealed decryption share against the player's
// published h_i: g^z =?= t1*h^e and c1^z =?= t2*d^e.
func VerifyShare(grp *Group, c1, h *big.Int, share *Share, proof *ChaumPedersenProof) bool {
	e := chaumPedersenChallenge(grp, c1, h, share.D, proof.T1, proof.T2)

	lhs1 := new(big.Int).Exp(grp.G, proof.Z, grp.P)
	rhs1 := new(big.Int).Exp(h, e, grp.P)
	rhs1.Mul(rhs1, proof.T1)
	rhs1.Mod(rhs1, grp.P)
	if lhs1.Cmp(rhs1) != 0 {
		return false
	}

	lhs2 := new(big.Int).Exp(c1, proof.Z, grp.P)
	rhs2 := new(big.Int).Exp(share.D, e, grp.P)
	rhs2.Mul(rhs2, proof.T2)
	rhs2.Mod(rhs2, grp.P)
	return lhs2.Cmp(rhs2) == 0
}

func chaumPedersenChallenge(grp *Group, c1, h, d, t1, t2 *big.Int) *big.Int {
	hash := sha256.New()
	for _, v := range []*big.Int{grp.P, grp.Q, grp.G, c1, h, d, t1, t2} {
		hash.Write(v.Bytes())
	}
	e := new(big.Int).SetBytes(hash.Sum(nil))
	return e.Mod(e, grp.Q)
}

// Decrypt recovers c2 / ∏ d_i mod p from the masked pair and every
// player's decryption share, the VTMF analogue of Rabin decryption.
func Decrypt(grp *Group, c2 *big.Int, shares []*Share) *big.Int {
	prod := big.NewInt(1)
	for _, s := range shares {
		prod.Mul(prod, s.D)
		prod.Mod(prod, grp.P)
	}
	inv := new(big.Int).ModInverse(prod, grp.P)
	if inv == nil {
		return nil
	}
	out := new(big.Int).Mul(c2, inv)
	return out.Mod(out, grp.P)
}

// TypeOf searches the small discrete-log space [0, maxType) for the index
// whose g^m equals decrypted, the VTMF analogue of TypeOfCard.
func TypeOf(grp *Group, decrypted *big.Int, maxType int64) (int64, error) {
	acc := big.NewInt(1)
	for m := int64(0); m < maxType; m++ {
		if acc.Cmp(decrypted) == 0 {
			return m, nil
		}
		acc.Mul(acc, grp.G)
		acc.Mod(acc, grp.P)
	}
	return 0, fmt.Errorf("vtmf: type not found within [0,%d)", maxType)
}

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)
