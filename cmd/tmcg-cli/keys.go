package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/schindelhauer/tmcg/key"
	"github.com/schindelhauer/tmcg/tmcgfs"
)

func generateKeyCmd(c *cli.Context) error {
	if c.NArg() < 2 {
		return fatal("generate-key needs <secret-key-file> <public-key-file>")
	}
	secretPath := c.Args().Get(0)
	publicPath := c.Args().Get(1)

	sk, err := key.GenerateSecretKey(c.String(nameFlag.Name), c.String(emailFlag.Name), c.Int(keysizeFlag.Name))
	if err != nil {
		return fatal("could not generate key: %v", err)
	}
	if err := tmcgfs.WriteSecretLine(secretPath, sk.Serialize()); err != nil {
		return fatal("could not write secret key: %v", err)
	}
	if err := tmcgfs.WriteSecretLine(publicPath, sk.Public().Serialize()); err != nil {
		return fatal("could not write public key: %v", err)
	}
	fmt.Printf("tmcg-cli: generated %d-bit key for %q\n", c.Int(keysizeFlag.Name), sk.Name)
	fmt.Printf("tmcg-cli: secret key written to %s\n", secretPath)
	fmt.Printf("tmcg-cli: public key written to %s\n", publicPath)
	return nil
}

func showKeyCmd(c *cli.Context) error {
	if c.NArg() < 1 {
		return fatal("show-key needs <key-file>")
	}
	line, err := tmcgfs.ReadLine(c.Args().Get(0))
	if err != nil {
		return fatal("could not read key file: %v", err)
	}

	if sk, err := key.ParseSecretKey(line); err == nil {
		fmt.Printf("secret key %q <%s>\n", sk.Name, sk.Email)
		fmt.Printf("  type: %s\n", sk.Type)
		fmt.Printf("  m:    %s\n", sk.M.String())
		fmt.Printf("  y:    %s\n", sk.Y.String())
		fmt.Printf("  valid: %v\n", sk.Check())
		return nil
	}

	pk, err := key.ParsePublicKey(line)
	if err != nil {
		return fatal("not a recognised secret or public key: %v", err)
	}
	fmt.Printf("public key %q <%s>\n", pk.Name, pk.Email)
	fmt.Printf("  type: %s\n", pk.Type)
	fmt.Printf("  m:    %s\n", pk.M.String())
	fmt.Printf("  y:    %s\n", pk.Y.String())
	fmt.Printf("  valid: %v\n", pk.Check())
	return nil
}

func loadPublicKeys(paths []string) ([]*key.PublicKey, error) {
	keys := make([]*key.PublicKey, len(paths))
	for i, p := range paths {
		line, err := tmcgfs.ReadLine(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		pk, err := key.ParsePublicKey(line)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", p, err)
		}
		keys[i] = pk
	}
	return keys, nil
}
