package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Secrets live in the OS keyring under one service name, keyed by
// "<site>/<name>" so accounts for different sites never collide.
const keyringService = "zender"

// SaveSecret stores a password or token in the OS keyring.
func SaveSecret(site, name, secret string) error {
	if err := keyring.Set(keyringService, site+"/"+name, secret); err != nil {
		return fmt.Errorf("storing secret: %w", err)
	}
	return nil
}

// LoadOptionalSecret fetches a stored secret, returning empty when the
// keyring has none or is unavailable.
func LoadOptionalSecret(site, name string) string {
	secret, err := keyring.Get(keyringService, site+"/"+name)
	if err != nil {
		return ""
	}
	return secret
}

// DeleteSecret removes a stored secret. Deleting an absent entry is
// not an error.
func DeleteSecret(site, name string) error {
	err := keyring.Delete(keyringService, site+"/"+name)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("removing secret: %w", err)
	}
	return nil
}
