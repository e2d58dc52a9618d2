package integrity

import (
	"crypto/hkdf"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Keyring holds the root HMAC keys for journal signing. Signing always
// uses the active key; verification accepts any configured key so old
// events stay verifiable across rotations.
type Keyring struct {
	keys   map[string][]byte
	active string
}

// NewKeyring validates the key set and the active key id.
func NewKeyring(keys map[string][]byte, activeKeyID string) (*Keyring, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("hmac keys are required")
	}
	active := strings.TrimSpace(activeKeyID)
	if active == "" {
		return nil, fmt.Errorf("active hmac key id is required")
	}
	if _, ok := keys[active]; !ok {
		return nil, fmt.Errorf("active hmac key id %q is not configured", active)
	}
	return &Keyring{keys: keys, active: active}, nil
}

// ActiveKeyID returns the id signing new events.
func (k *Keyring) ActiveKeyID() string {
	if k == nil {
		return ""
	}
	return k.active
}

// SignChainHash produces the HMAC for a game's chain head using the
// active key, returning the signature and the key id that made it.
func (k *Keyring) SignChainHash(gameID, chainHash string) (string, string, error) {
	if k == nil {
		return "", "", fmt.Errorf("hmac keyring is not configured")
	}
	key, err := k.gameKey(k.active, gameID)
	if err != nil {
		return "", "", err
	}
	return signHex(key, chainHash), k.active, nil
}

// VerifyChainHash checks a stored signature against the keyring. The
// key id recorded on the event picks which root key to try.
func (k *Keyring) VerifyChainHash(gameID, chainHash, signature, keyID string) error {
	if k == nil {
		return fmt.Errorf("hmac keyring is not configured")
	}
	keyID = strings.TrimSpace(keyID)
	if keyID == "" {
		return fmt.Errorf("signature key id is required")
	}
	key, err := k.gameKey(keyID, gameID)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(signHex(key, chainHash)), []byte(signature)) {
		return fmt.Errorf("signature mismatch")
	}
	return nil
}

// gameKey derives the per-game signing key. Scoping by game id keeps a
// signature from one journal from validating in another.
func (k *Keyring) gameKey(keyID, gameID string) ([]byte, error) {
	root, ok := k.keys[keyID]
	if !ok {
		return nil, fmt.Errorf("hmac key id %q is unknown", keyID)
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, fmt.Errorf("game id is required")
	}
	key, err := hkdf.Key(sha256.New, root, nil, "game:"+gameID, 32)
	if err != nil {
		return nil, fmt.Errorf("derive game key: %w", err)
	}
	return key, nil
}

func signHex(key []byte, value string) string {
	mac := hmac.New(sha256.New, key)
	_, _ = mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
