package integrity

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables configuring the journal signing keyring. The
// single-key form covers dev setups; the keyring form carries every
// key still needed to verify old events, with the active id naming
// the one that signs new ones.
const (
	envHMACKeys  = "SMALLTOWN_GAME_EVENT_HMAC_KEYS"
	envHMACKey   = "SMALLTOWN_GAME_EVENT_HMAC_KEY"
	envHMACKeyID = "SMALLTOWN_GAME_EVENT_HMAC_KEY_ID"
	defaultKeyID = "v1"
)

// KeyringFromEnv builds the signing keyring from the environment.
func KeyringFromEnv() (*Keyring, error) {
	activeID := strings.TrimSpace(os.Getenv(envHMACKeyID))
	if activeID == "" {
		activeID = defaultKeyID
	}

	if spec := strings.TrimSpace(os.Getenv(envHMACKeys)); spec != "" {
		keys, err := parseKeySpec(spec)
		if err != nil {
			return nil, err
		}
		return NewKeyring(keys, activeID)
	}

	single := strings.TrimSpace(os.Getenv(envHMACKey))
	if single == "" {
		return nil, fmt.Errorf("%s is required", envHMACKey)
	}
	return NewKeyring(map[string][]byte{activeID: []byte(single)}, activeID)
}

// parseKeySpec reads "id=key,id=key" pairs. Blank entries are
// tolerated so a trailing comma does not break startup.
func parseKeySpec(spec string) (map[string][]byte, error) {
	keys := make(map[string][]byte)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, value, ok := strings.Cut(entry, "=")
		id = strings.TrimSpace(id)
		value = strings.TrimSpace(value)
		if !ok || id == "" || value == "" {
			return nil, fmt.Errorf("invalid %s entry %q", envHMACKeys, entry)
		}
		keys[id] = []byte(value)
	}
	return keys, nil
}
