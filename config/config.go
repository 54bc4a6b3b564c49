// Package config loads and persists toolbox-wide settings (security level,
// player/card/type bounds, key size, file locations), grounded on the
// teacher's config.go/defaults.go pair and its TOML-backed key/group
// persistence style.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/schindelhauer/tmcg/constants"
	"github.com/schindelhauer/tmcg/tmcgfs"
)

const defaultSecretKeyFile = "tmcg_id.private"
const defaultPublicKeyFile = "tmcg_id.public"
const defaultConfigFile = "tmcg.toml"

// Config holds the process-wide limits named in spec.md §6. A zero-value
// Config holds zeros, not the constants package's defaults; use Default()
// to obtain a Config seeded with them.
type Config struct {
	SecurityLevel  int    `toml:"security_level"`
	MaxPlayers     int    `toml:"max_players"`
	MaxTypeBits    int    `toml:"max_type_bits"`
	MaxCards       int    `toml:"max_cards"`
	MaxStackChars  int    `toml:"max_stack_chars"`
	KeySize        int    `toml:"key_size"`
	KeyIDSize      int    `toml:"key_id_size"`
	MPZIOBase      int    `toml:"mpz_io_base"`
	SecretKeyFile  string `toml:"secret_key_file"`
	PublicKeyFile  string `toml:"public_key_file"`
}

// Default returns a Config seeded from the constants package's defaults,
// with key files resolved relative to the current working directory
// (mirroring the teacher's pwd()-relative defaultPrivateFile/defaultGroupFile).
func Default() *Config {
	return &Config{
		SecurityLevel: constants.SecurityLevel,
		MaxPlayers:    constants.MaxPlayers,
		MaxTypeBits:   constants.MaxTypeBits,
		MaxCards:      constants.MaxCards,
		MaxStackChars: constants.MaxStackChars,
		KeySize:       constants.KeySize,
		KeyIDSize:     constants.KeyIDSize,
		MPZIOBase:     constants.MPZIOBase,
		SecretKeyFile: defaultSecretKeyFile,
		PublicKeyFile: defaultPublicKeyFile,
	}
}

// Apply overwrites the constants package's mutable defaults from c, so the
// rest of the toolbox (which reads constants directly) observes a loaded
// configuration.
func (c *Config) Apply() {
	constants.SecurityLevel = c.SecurityLevel
	constants.MaxPlayers = c.MaxPlayers
	constants.MaxTypeBits = c.MaxTypeBits
	constants.MaxCards = c.MaxCards
	constants.MaxStackChars = c.MaxStackChars
	constants.KeySize = c.KeySize
	constants.KeyIDSize = c.KeyIDSize
}

// Load reads a TOML config file, falling back to Default() for any field
// left unset in the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes c as a TOML file at path with secret-grade permissions,
// since it may record a SecretKeyFile location.
func Save(c *Config, path string) error {
	fd, err := tmcgfs.CreateSecretFile(path)
	if err != nil {
		return err
	}
	defer fd.Close()
	return toml.NewEncoder(fd).Encode(c)
}

// DefaultConfigPath returns the standard per-user config location,
// $HOME/.tmcg/tmcg.toml, grounded on the teacher's HomeFolder-relative
// defaults.
func DefaultConfigPath() string {
	return filepath.Join(tmcgfs.HomeFolder(), ".tmcg", defaultConfigFile)
}

// EnsureConfigDir creates (if needed) and returns the per-user config
// directory.
func EnsureConfigDir() (string, error) {
	dir := filepath.Join(tmcgfs.HomeFolder(), ".tmcg")
	return tmcgfs.CreateSecureFolder(dir)
}

func pwd() string {
	s, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultSecretKeyPath returns the cwd-relative secret key file path,
// mirroring the teacher's defaultPrivateFile().
func DefaultSecretKeyPath() string {
	return filepath.Join(pwd(), defaultSecretKeyFile)
}

// DefaultPublicKeyPath returns the cwd-relative public key file path.
func DefaultPublicKeyPath() string {
	return filepath.Join(pwd(), defaultPublicKeyFile)
}
