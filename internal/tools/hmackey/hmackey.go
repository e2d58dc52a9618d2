// Package hmackey generates journal signing keys in the env format the
// game service reads at startup.
package hmackey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Config holds key generation settings.
type Config struct {
	Bytes int
	KeyID string
}

// ParseConfig reads the generation flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Bytes: 32}
	fs.IntVar(&cfg.Bytes, "bytes", cfg.Bytes, "key length in random bytes")
	fs.StringVar(&cfg.KeyID, "id", "", "emit a keyring rotation entry under this key id")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run generates a key and writes the matching env assignment to out.
// Without -id the output sets the single-key variable. With -id it
// sets the keyring variable plus the active key id, ready to paste
// into a rotation config.
func Run(cfg Config, out io.Writer, reader io.Reader) error {
	if cfg.Bytes <= 0 {
		return errors.New("bytes must be greater than zero")
	}
	if out == nil {
		return errors.New("output is required")
	}
	if reader == nil {
		reader = rand.Reader
	}

	buf := make([]byte, cfg.Bytes)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	key := hex.EncodeToString(buf)

	id := strings.TrimSpace(cfg.KeyID)
	if id == "" {
		_, err := fmt.Fprintf(out, "SMALLTOWN_GAME_EVENT_HMAC_KEY=%s\n", key)
		return err
	}
	// The keyring env format uses '=' and ',' as separators.
	if strings.ContainsAny(id, "=,") {
		return fmt.Errorf("key id %q must not contain '=' or ','", id)
	}
	_, err := fmt.Fprintf(out, "SMALLTOWN_GAME_EVENT_HMAC_KEYS=%s=%s\nSMALLTOWN_GAME_EVENT_HMAC_KEY_ID=%s\n", id, key, id)
	return err
}
