package main

import (
	"github.com/urfave/cli/v2"

	"github.com/schindelhauer/tmcg/card"
	"github.com/schindelhauer/tmcg/stack"
	"github.com/schindelhauer/tmcg/tmcg"
	"github.com/schindelhauer/tmcg/tmcgfs"
)

func shuffleStackCmd(c *cli.Context) error {
	keys, err := loadPublicKeys(splitPlayers(c))
	if err != nil {
		return err
	}

	line, err := tmcgfs.ReadLine(c.String(stackFlag.Name))
	if err != nil {
		return fatal("could not read stack file: %v", err)
	}
	s, err := stack.ParseStack(line, card.ParseCard)
	if err != nil {
		return fatal("could not parse stack: %v", err)
	}

	size := c.Int(sizeFlag.Name)
	if size == 0 {
		size = s.Len()
	}

	tm := tmcg.New(keys, c.Int(typeBitsFlag.Name))
	ss, err := tm.CreateStackSecret(c.Bool(cyclicFlag.Name), size)
	if err != nil {
		return fatal("could not create stack secret: %v", err)
	}
	mixed := tm.MixStack(s, ss)

	return writeOut(c, mixed.Serialize()+ss.Serialize())
}
