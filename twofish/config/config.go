package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/TheusHen/TwoFish/twofish/frame"
	"github.com/TheusHen/TwoFish/twofish/transport"
)

// Environment variable names.
const (
	EnvKey      = "TWOFISH_KEY"
	EnvHex      = "TWOFISH_HEX"
	EnvCompress = "TWOFISH_COMPRESS"
	EnvListen   = "TWOFISH_LISTEN"
	EnvPeer     = "TWOFISH_PEER"
	EnvSalt     = "TWOFISH_SALT"
)

const DefaultListenAddr = "127.0.0.1:4242"

var ErrUnknownSalt = errors.New("config: unknown salt source")

// Config holds settings for the tfcrypt binary.
type Config struct {
	Key        string
	Hex        bool
	Compress   bool
	ListenAddr string
	PeerAddr   string
	Salt       string // "legacy" or "crypto"
}

// Load reads envFile into the environment when it exists, without
// overriding variables already set, and then builds a Config from the
// environment. An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", envFile, err)
		}
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() *Config {
	return &Config{
		Key:        getEnv(EnvKey, ""),
		Hex:        getEnvBool(EnvHex, false),
		Compress:   getEnvBool(EnvCompress, true),
		ListenAddr: getEnv(EnvListen, DefaultListenAddr),
		PeerAddr:   getEnv(EnvPeer, ""),
		Salt:       strings.ToLower(getEnv(EnvSalt, "legacy")),
	}
}

func (c *Config) Validate() error {
	switch c.Salt {
	case "legacy", "crypto":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSalt, c.Salt)
	}
}

// SaltSource maps the Salt setting to a frame salt source.
func (c *Config) SaltSource() frame.SaltSource {
	if c.Salt == "crypto" {
		return frame.CryptoSalt
	}
	return frame.LegacySalt
}

// CodecOptions returns options for frame.NewCodec.
func (c *Config) CodecOptions() frame.Options {
	return frame.Options{Salt: c.SaltSource()}
}

// ChannelConfig returns the transport settings.
func (c *Config) ChannelConfig() transport.Config {
	tc := transport.DefaultConfig()
	tc.Hex = c.Hex
	tc.Compress = c.Compress
	tc.Salt = c.SaltSource()
	return tc
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// String returns the configuration with the key masked.
func (c *Config) String() string {
	key := "(default passphrase)"
	if c.Key != "" {
		key = "***"
	}
	return fmt.Sprintf("key=%s hex=%t compress=%t listen=%s peer=%s salt=%s",
		key, c.Hex, c.Compress, c.ListenAddr, c.PeerAddr, c.Salt)
}
