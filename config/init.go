package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nextapp/nextappd/errors"
)

// defaultProjectConfig mirrors Config's defaults, laid out as a plain
// struct so toml.NewEncoder can render it without pulling in viper.
type defaultProjectConfig struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Pubsub   PubsubConfig   `toml:"pubsub"`
}

// WriteDefault writes a commented-free nextappd.toml scaffold at path,
// populated with the same defaults setDefaults installs into viper. It
// refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("%s already exists", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	cfg := defaultProjectConfig{
		Server:   ServerConfig{ListenAddr: DefaultListenAddr, ShutdownTimeout: DefaultShutdownTimeout},
		Database: DatabaseConfig{Path: DefaultDBPath},
		Pubsub:   PubsubConfig{QueueDepth: DefaultQueueDepth},
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return nil
}
