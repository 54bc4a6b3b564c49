package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/constants"
	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/proof"
	"github.com/schindelhauer/tmcg/tmcgfs"
)

// revealCardCmd runs ProofCardSecret locally, wiring prover and verifier
// together over an in-process pipe, and prints the bits the verifier
// recovers for the requested row. It is the single-process stand-in for
// the prover and verifier normally running on separate players' machines.
func revealCardCmd(c *cli.Context) error {
	keyLine, err := tmcgfs.ReadLine(c.String(keyFlag.Name))
	if err != nil {
		return fatal("could not read secret key: %v", err)
	}
	sk, err := key.ParseSecretKey(keyLine)
	if err != nil {
		return fatal("could not parse secret key: %v", err)
	}

	cardLine, err := tmcgfs.ReadLine(c.String(cardFlag.Name))
	if err != nil {
		return fatal("could not read card: %v", err)
	}
	crd, err := card.ParseCard(cardLine)
	if err != nil {
		return fatal("could not parse card: %v", err)
	}

	row := c.Int(rowFlag.Name)
	if row < 0 || row >= len(crd.Z) {
		return fatal("row %d out of range for a %d-row card", row, len(crd.Z))
	}

	rounds := c.Int(roundsFlag.Name)
	if rounds == 0 {
		rounds = constants.SecurityLevel
	}

	pw, vr := io.Pipe()
	vw, pr := io.Pipe()
	errCh := make(chan error, 1)
	go func() {
		errCh <- proof.ProveCardSecret(pw, bufio.NewReader(pr), sk, crd, row, rounds)
		pw.Close()
	}()
	bits, ok := proof.VerifyCardSecret(vw, bufio.NewReader(vr), sk.Public(), crd, row, rounds)
	vw.Close()
	if err := <-errCh; err != nil {
		return fatal("proof failed: %v", err)
	}
	if !ok {
		return fatal("verification failed")
	}

	fmt.Printf("tmcg-cli: row %d revealed bits: %v\n", row, bits)
	return nil
}
