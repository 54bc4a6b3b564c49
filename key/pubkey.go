package key

import (
	"math/big"
	"strings"

	"github.com/schindelhauer/tmcg/wire"
)

// PublicKey is the exported view of a Schindelhauer key: everything needed
// to verify proofs and signatures against it, with no secret material.
type PublicKey struct {
	Name, Email, Type string
	M, Y              *big.Int
	NIZK              *NIZK
	Sig               string
}

// Check validates a standalone public key: the NIZK bundle and the
// self-signature (spec.md §4.2).
func (pk *PublicKey) Check() bool {
	return checkStructure(pk.M, pk.Y, nil, nil) &&
		VerifyNIZK(pk.NIZK, pk.M, pk.Y) &&
		VerifySelfSignature(pk)
}

func (pk *PublicKey) identityHash() string {
	w := wire.NewWriter("", '|')
	w.Str(pk.Name)
	w.Str(pk.Email)
	w.Str(pk.Type)
	w.Int(pk.M)
	w.Int(pk.Y)
	w.Raw(pk.NIZK.Serialize())
	return strings.TrimSuffix(w.String(), "\n")
}

// VerifySelfSignature checks pk.Sig against pk's own identity hash.
func VerifySelfSignature(pk *PublicKey) bool {
	sig, err := ParseSignature(pk.Sig)
	if err != nil {
		return false
	}
	return Verify(pk, []byte(pk.identityHash()), sig)
}

// Serialize renders the key as `pub|name|email|type|m|y|nizk|sig`.
func (pk *PublicKey) Serialize() string {
	w := wire.NewWriter("pub|", '|')
	w.Str(pk.Name)
	w.Str(pk.Email)
	w.Str(pk.Type)
	w.Int(pk.M)
	w.Int(pk.Y)
	w.Raw(pk.NIZK.Serialize())
	w.Str(pk.Sig)
	return w.String()
}

// ParsePublicKey parses a `pub|…` record.
func ParsePublicKey(line string) (*PublicKey, error) {
	line = strings.TrimSuffix(line, "\n")
	magicEnd := 4
	if len(line) < magicEnd || line[:magicEnd] != "pub|" {
		return nil, wire.ErrMalformed
	}
	nzkIdx := strings.Index(line, "nzk^")
	if nzkIdx < 0 {
		return nil, wire.ErrMalformed
	}
	head, err := wire.ParseRecord(line[:nzkIdx], "pub|", '|')
	if err != nil {
		return nil, err
	}
	pk := &PublicKey{}
	if pk.Name, err = head.Str(); err != nil {
		return nil, err
	}
	if pk.Email, err = head.Str(); err != nil {
		return nil, err
	}
	if pk.Type, err = head.Str(); err != nil {
		return nil, err
	}
	if pk.M, err = head.Int(); err != nil {
		return nil, err
	}
	if pk.Y, err = head.Int(); err != nil {
		return nil, err
	}
	if !head.Done() {
		return nil, wire.ErrMalformed
	}

	tail := line[nzkIdx:]
	sigIdx := strings.LastIndexByte(tail, '^')
	if sigIdx < 0 {
		return nil, wire.ErrMalformed
	}
	pk.NIZK, err = ParseNIZK(tail[:sigIdx+1])
	if err != nil {
		return nil, err
	}
	pk.Sig = strings.TrimSuffix(tail[sigIdx+1:], "|")
	return pk, nil
}

// Ring is an ordered sequence of public keys, one per player at a fixed
// seat index — the PublicKeyRing of spec.md §3, shaped after the teacher's
// common/key/group.go Group type (Find/Len/Public accessors).
type Ring struct {
	keys []*PublicKey
}

// NewRing builds a ring from the given seat-ordered keys.
func NewRing(keys ...*PublicKey) *Ring {
	return &Ring{keys: keys}
}

// Len returns the number of seats.
func (r *Ring) Len() int { return len(r.keys) }

// Public returns the key at seat i.
func (r *Ring) Public(i int) *PublicKey {
	if i < 0 || i >= len(r.keys) {
		return nil
	}
	return r.keys[i]
}

// Find returns the seat index of pk, or -1.
func (r *Ring) Find(pk *PublicKey) int {
	for i, k := range r.keys {
		if k.M.Cmp(pk.M) == 0 && k.Y.Cmp(pk.Y) == 0 {
			return i
		}
	}
	return -1
}

// Append adds a key as the next seat.
func (r *Ring) Append(pk *PublicKey) {
	r.keys = append(r.keys, pk)
}

// CheckAll validates every key in the ring.
func (r *Ring) CheckAll() bool {
	for _, k := range r.keys {
		if !k.Check() {
			return false
		}
	}
	return true
}
