// Package proof implements the interactive zero-knowledge proof
// transcripts of spec.md §4.6: each is a Σ-protocol run for
// constants.SecurityLevel independent parallel rounds over a pair of
// byte streams, one committing/responding (the prover) and one
// challenging/accepting (the verifier).
package proof

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/schindelhauer/tmcg/wire"
)

// writeInt writes one base-36 integer followed by a newline, the
// line-oriented integer transcript spec.md §4.6 describes.
func writeInt(w io.Writer, n *big.Int) error {
	_, err := io.WriteString(w, n.Text(wire.IOBase)+"\n")
	return err
}

// readInt reads one base-36 integer line.
func readInt(r *bufio.Reader) (*big.Int, error) {
	line, err := wire.ReadLine(r)
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(line, wire.IOBase)
	if !ok {
		return nil, wire.ErrMalformed
	}
	return n, nil
}

// writeBit writes a single challenge/response bit as its own line.
func writeBit(w io.Writer, b int) error {
	_, err := io.WriteString(w, fmt.Sprintf("%d\n", b))
	return err
}

// readBit reads a single bit line.
func readBit(r *bufio.Reader) (int, error) {
	line, err := wire.ReadLine(r)
	if err != nil {
		return 0, err
	}
	if line == "0" {
		return 0, nil
	}
	if line == "1" {
		return 1, nil
	}
	return 0, wire.ErrMalformed
}
