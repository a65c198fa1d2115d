package config

import (
	"errors"
	"fmt"

	"github.com/ImGajeed76/filehelper/pkg/filehelper/console"
	"github.com/zalando/go-keyring"
)

// DefaultService is the keyring service SFTP passwords are stored under.
const DefaultService = "filehelper"

// ErrNotFound is returned when no secret is stored for an account.
var ErrNotFound = keyring.ErrNotFound

// Credentials stores SFTP passwords in the system keyring, keyed by
// user@host:port.
type Credentials struct {
	service string
}

// New creates a credential store for the given keyring service.
func New(service string) (*Credentials, error) {
	if service == "" {
		return nil, fmt.Errorf("service name cannot be empty")
	}
	return &Credentials{
		service: service,
	}, nil
}

// Default returns the store for DefaultService.
func Default() *Credentials {
	return &Credentials{service: DefaultService}
}

// Service returns the keyring service name.
func (c *Credentials) Service() string {
	return c.service
}

// Set stores the password for account.
func (c *Credentials) Set(account, password string) error {
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}
	return keyring.Set(c.service, account, password)
}

// Password looks up the password for account. A missing entry gives ErrNotFound.
func (c *Credentials) Password(account string) (string, error) {
	if account == "" {
		return "", fmt.Errorf("account cannot be empty")
	}
	return keyring.Get(c.service, account)
}

// Exists checks if a password is stored for account.
func (c *Credentials) Exists(account string) bool {
	_, err := c.Password(account)
	return err == nil
}

// Delete removes the password for account. Deleting a missing entry is not
// an error.
func (c *Credentials) Delete(account string) error {
	if account == "" {
		return fmt.Errorf("account cannot be empty")
	}
	if err := keyring.Delete(c.service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}

// SetFromInput prompts twice for the password of account and stores it.
func (c *Credentials) SetFromInput(account string) error {
	value, err := console.Input(console.PasswordOptions(account))
	if err != nil {
		return err
	}
	return c.Set(account, value)
}
