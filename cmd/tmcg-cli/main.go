// tmcg-cli is a command line front-end over the toolbox, generating and
// inspecting Schindelhauer keys and exercising the mental card game
// protocol (card creation, masking, shuffling, card-secret revelation)
// from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/schindelhauer/tmcg/config"
	"github.com/schindelhauer/tmcg/tmcglog"
)

// Automatically set through -ldflags, mirroring the teacher's version banner.
var (
	version   = "master"
	gitCommit = "none"
	buildDate = "unknown"
)

func banner() {
	fmt.Printf("tmcg-cli %v (date %v, commit %v)\n", version, buildDate, gitCommit)
}

var keyFlag = &cli.StringFlag{
	Name:  "key",
	Value: config.DefaultSecretKeyPath(),
	Usage: "Path to the player's secret key file.",
}

var pubKeyFlag = &cli.StringFlag{
	Name:  "pubkey",
	Value: config.DefaultPublicKeyPath(),
	Usage: "Path to a player's public key file.",
}

var playersFlag = &cli.StringFlag{
	Name:     "players",
	Required: true,
	Usage:    "Comma-separated list of public key files, one per player, in player order.",
}

var ownerFlag = &cli.IntFlag{
	Name:  "owner",
	Usage: "Index (0-based) of the player who may open the card.",
}

var typeFlag = &cli.IntFlag{
	Name:  "type",
	Usage: "Card type, an integer in [0, 2^type-bits).",
}

var typeBitsFlag = &cli.IntFlag{
	Name:  "type-bits",
	Value: 6,
	Usage: "Number of bits used to encode a card's type.",
}

var keysizeFlag = &cli.IntFlag{
	Name:  "keysize",
	Value: 1024,
	Usage: "Bit length of the generated Rabin modulus.",
}

var nameFlag = &cli.StringFlag{
	Name:  "name",
	Value: "player",
	Usage: "Display name stored in the generated key.",
}

var emailFlag = &cli.StringFlag{
	Name:  "email",
	Value: "player@example.com",
	Usage: "Contact e-mail stored in the generated key.",
}

var outFlag = &cli.StringFlag{
	Name:  "out",
	Usage: "Write output to this file instead of stdout.",
}

var cardFlag = &cli.StringFlag{
	Name:     "card",
	Required: true,
	Usage:    "Path to a file holding a serialised card.",
}

var stackFlag = &cli.StringFlag{
	Name:     "stack",
	Required: true,
	Usage:    "Path to a file holding a serialised stack of cards.",
}

var sizeFlag = &cli.IntFlag{
	Name:  "size",
	Usage: "Number of cards in the stack to shuffle.",
}

var cyclicFlag = &cli.BoolFlag{
	Name:  "cyclic",
	Usage: "Use a cyclic shift instead of a full random permutation.",
}

var roundsFlag = &cli.IntFlag{
	Name:  "rounds",
	Value: 0,
	Usage: "Number of zero-knowledge rounds to run (0 uses the security-level default).",
}

var rowFlag = &cli.IntFlag{
	Name:  "row",
	Usage: "Row (player index) of the card whose secret is being revealed.",
}

var verboseFlag = &cli.BoolFlag{
	Name:  "verbose",
	Usage: "Log at debug level instead of info.",
}

var logJSONFlag = &cli.BoolFlag{
	Name:  "log-json",
	Usage: "Emit log lines as JSON instead of the console format.",
}

func toArray(flags ...cli.Flag) []cli.Flag {
	return flags
}

// loggerFromContext builds the process-wide logger from the global
// --verbose/--log-json flags, the way banner() reads the version flags.
func loggerFromContext(c *cli.Context) tmcglog.Logger {
	level := tmcglog.InfoLevel
	if c.Bool(verboseFlag.Name) {
		level = tmcglog.DebugLevel
	}
	tmcglog.ConfigureDefaultLogger(nil, level, c.Bool(logJSONFlag.Name))
	return tmcglog.DefaultLogger().Named("tmcg-cli")
}

var appCommands = []*cli.Command{
	{
		Name:      "generate-key",
		Usage:     "Generate a fresh secret/public key pair and store them on disk.\n",
		ArgsUsage: "<secret-key-file> <public-key-file>",
		Flags:     toArray(nameFlag, emailFlag, keysizeFlag),
		Action: func(c *cli.Context) error {
			banner()
			return generateKeyCmd(c)
		},
	},
	{
		Name:      "show-key",
		Usage:     "Print the fields of a stored secret or public key.\n",
		ArgsUsage: "<key-file>",
		Action: func(c *cli.Context) error {
			return showKeyCmd(c)
		},
	},
	{
		Name:  "create-open-card",
		Usage: "Create a face-up card visible to every listed player.\n",
		Flags: toArray(playersFlag, typeFlag, typeBitsFlag, outFlag),
		Action: func(c *cli.Context) error {
			return createOpenCardCmd(c)
		},
	},
	{
		Name:  "create-private-card",
		Usage: "Create a card only one player can open, along with its opening secret.\n",
		Flags: toArray(playersFlag, ownerFlag, typeFlag, typeBitsFlag, outFlag),
		Action: func(c *cli.Context) error {
			return createPrivateCardCmd(c)
		},
	},
	{
		Name:  "shuffle-stack",
		Usage: "Shuffle a stack of cards and write the mixed stack and its opening secret.\n",
		Flags: toArray(playersFlag, stackFlag, sizeFlag, typeBitsFlag, cyclicFlag, outFlag),
		Action: func(c *cli.Context) error {
			return shuffleStackCmd(c)
		},
	},
	{
		Name:  "reveal-card",
		Usage: "Run the card-secret proof for one row of a card and print the recovered bits.\n",
		Flags: toArray(keyFlag, cardFlag, rowFlag, roundsFlag),
		Action: func(c *cli.Context) error {
			return revealCardCmd(c)
		},
	},
}

// appLogger is set by the app's Before hook once global flags are parsed;
// it defaults to the package logger so a flag-parse failure before Before
// runs still has somewhere to report to.
var appLogger = tmcglog.DefaultLogger().Named("tmcg-cli")

func main() {
	app := cli.NewApp()
	app.Name = "tmcg-cli"
	app.Usage = "mental card game toolbox"
	app.Version = version
	app.Flags = toArray(verboseFlag, logJSONFlag)
	cli.VersionPrinter = func(c *cli.Context) {
		banner()
	}
	app.Before = func(c *cli.Context) error {
		appLogger = loggerFromContext(c)
		return nil
	}
	app.Commands = appCommands
	if err := app.Run(os.Args); err != nil {
		appLogger.Errorw("command failed", "error", err)
		os.Exit(1)
	}
}

func fatal(str string, args ...interface{}) error {
	return fmt.Errorf(str, args...)
}

func writeOut(c *cli.Context, data string) error {
	if c.IsSet(outFlag.Name) {
		return os.WriteFile(c.String(outFlag.Name), []byte(data), 0644)
	}
	fmt.Print(data)
	return nil
}
