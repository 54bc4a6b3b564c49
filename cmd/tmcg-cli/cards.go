package main

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/schindelhauer/tmcg/tmcg"
)

func splitPlayers(c *cli.Context) []string {
	raw := c.String(playersFlag.Name)
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func createOpenCardCmd(c *cli.Context) error {
	keys, err := loadPublicKeys(splitPlayers(c))
	if err != nil {
		return err
	}
	tm := tmcg.New(keys, c.Int(typeBitsFlag.Name))
	card := tm.CreateOpenCard(c.Int(typeFlag.Name))
	return writeOut(c, card.Serialize())
}

func createPrivateCardCmd(c *cli.Context) error {
	keys, err := loadPublicKeys(splitPlayers(c))
	if err != nil {
		return err
	}
	owner := c.Int(ownerFlag.Name)
	if owner < 0 || owner >= len(keys) {
		return fatal("owner index %d out of range for %d players", owner, len(keys))
	}
	tm := tmcg.New(keys, c.Int(typeBitsFlag.Name))
	card, secret, err := tm.CreatePrivateCard(owner, c.Int(typeFlag.Name))
	if err != nil {
		return fatal("could not create private card: %v", err)
	}
	return writeOut(c, card.Serialize()+secret.Serialize())
}
