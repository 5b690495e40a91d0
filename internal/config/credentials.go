package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"jsonflake/pkg/models"
)

// KeyringService is the OS keyring service holding Snowflake passwords
const KeyringService = "jsonflake"

// KeyringUser is the keyring entry name for a Snowflake login
func KeyringUser(sf models.Snowflake) string {
	return fmt.Sprintf("%s/%s", sf.Account, sf.Username)
}

// ResolvePassword fills an empty Snowflake password from the OS keyring.
// A missing keyring entry leaves the password empty.
func ResolvePassword(sf *models.Snowflake) error {
	if sf.Password != "" || sf.Account == "" || sf.Username == "" {
		return nil
	}

	secret, err := keyring.Get(KeyringService, KeyringUser(*sf))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read password from keyring: %w", err)
	}

	sf.Password = secret
	return nil
}
