// Package account manages the local credential file. Accounts are stored
// as a JSON array; exactly one account is active at a time.
package account

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mptcli/cli/internal/api"
	"github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/httpclient"
	"github.com/mptcli/cli/internal/interfaces"
)

const fileMode = 0o600

// Manager implements the AccountStore interface on a JSON file.
type Manager struct {
	path string
}

// NewManager creates a manager over the given credential file path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// DefaultPath returns the credential file location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewGenericError("failed to resolve home directory", err)
	}
	return filepath.Join(home, ".mpt", "accounts.json"), nil
}

func (m *Manager) load() ([]interfaces.Account, error) {
	raw, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewGenericError("failed to read accounts file", err)
	}
	var accounts []interfaces.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, errors.NewGenericError("accounts file is not valid JSON", err)
	}
	return accounts, nil
}

func (m *Manager) save(accounts []interfaces.Account) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return errors.NewGenericError("failed to create the accounts directory", err)
	}
	raw, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return errors.NewGenericError("failed to encode accounts", err)
	}
	if err := os.WriteFile(m.path, raw, fileMode); err != nil {
		return errors.NewGenericError("failed to write accounts file", err)
	}
	return nil
}

// Add stores an account and makes it active, clearing the flag everywhere
// else. An account with the same ID is replaced.
func (m *Manager) Add(account interfaces.Account) error {
	accounts, err := m.load()
	if err != nil {
		return err
	}
	kept := make([]interfaces.Account, 0, len(accounts)+1)
	for _, existing := range accounts {
		if existing.ID == account.ID {
			continue
		}
		existing.IsActive = false
		kept = append(kept, existing)
	}
	account.IsActive = true
	kept = append(kept, account)
	return m.save(kept)
}

// List returns every stored account.
func (m *Manager) List() ([]interfaces.Account, error) {
	return m.load()
}

// Activate marks one account active and clears the flag on all others.
func (m *Manager) Activate(id string) (interfaces.Account, error) {
	accounts, err := m.load()
	if err != nil {
		return interfaces.Account{}, err
	}
	var activated *interfaces.Account
	for i := range accounts {
		accounts[i].IsActive = accounts[i].ID == id
		if accounts[i].IsActive {
			activated = &accounts[i]
		}
	}
	if activated == nil {
		return interfaces.Account{}, errors.NewNotFoundError(fmt.Sprintf("account %s not found", id))
	}
	if err := m.save(accounts); err != nil {
		return interfaces.Account{}, err
	}
	return *activated, nil
}

// Remove deletes an account. Removing the active account leaves no account
// active.
func (m *Manager) Remove(id string) (interfaces.Account, error) {
	accounts, err := m.load()
	if err != nil {
		return interfaces.Account{}, err
	}
	var removed *interfaces.Account
	kept := make([]interfaces.Account, 0, len(accounts))
	for i := range accounts {
		if accounts[i].ID == id {
			removed = &accounts[i]
			continue
		}
		kept = append(kept, accounts[i])
	}
	if removed == nil {
		return interfaces.Account{}, errors.NewNotFoundError(fmt.Sprintf("account %s not found", id))
	}
	if err := m.save(kept); err != nil {
		return interfaces.Account{}, err
	}
	return *removed, nil
}

// Active returns the account currently marked active.
func (m *Manager) Active() (interfaces.Account, error) {
	accounts, err := m.load()
	if err != nil {
		return interfaces.Account{}, err
	}
	for _, account := range accounts {
		if account.IsActive {
			return account, nil
		}
	}
	return interfaces.Account{}, errors.NewNotFoundError("no active account, add or activate one first")
}

// ResolveToken validates an API secret against the platform and builds the
// account record from the token's owner. The secret must resolve to exactly
// one platform token.
func ResolveToken(ctx context.Context, environment, secret string) (interfaces.Account, error) {
	client := httpclient.NewClient(environment, secret)
	return resolveToken(ctx, client, environment, secret)
}

func resolveToken(ctx context.Context, client interfaces.HTTPClient, environment, secret string) (interfaces.Account, error) {
	service := api.NewService(client, "/accounts/api-tokens")
	query := url.Values{}
	query.Set("token", secret)
	query.Set("limit", "2")
	page, err := service.List(ctx, query)
	if err != nil {
		return interfaces.Account{}, err
	}
	if len(page.Data) != 1 {
		return interfaces.Account{}, &errors.InvalidTokenError{
			Reason: fmt.Sprintf("the secret resolves to %d tokens, expected exactly one", len(page.Data)),
		}
	}

	data := page.Data[0]
	account := interfaces.Account{
		Token:       secret,
		Environment: environment,
	}
	if id, ok := data["id"].(string); ok {
		account.TokenID = id
	}
	owner, ok := data["account"].(map[string]any)
	if !ok {
		return interfaces.Account{}, &errors.InvalidTokenError{Reason: "the token carries no account"}
	}
	if id, ok := owner["id"].(string); ok {
		account.ID = id
	}
	if name, ok := owner["name"].(string); ok {
		account.Name = name
	}
	if accountType, ok := owner["type"].(string); ok {
		account.Type = interfaces.AccountType(accountType)
	}
	return account, nil
}
