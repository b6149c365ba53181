package interfaces

// AccountType distinguishes the three kinds of platform principals.
type AccountType string

const (
	AccountVendor     AccountType = "Vendor"
	AccountOperations AccountType = "Operations"
	AccountClient     AccountType = "Client"
)

// Account is one locally stored platform credential. Exactly one account is
// active at a time.
type Account struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Type        AccountType `json:"type" yaml:"type"`
	Token       string      `json:"token" yaml:"token"`
	TokenID     string      `json:"token_id" yaml:"token_id"`
	Environment string      `json:"environment" yaml:"environment"`
	IsActive    bool        `json:"is_active" yaml:"is_active"`
}

// AccountStore manages the local credential file.
type AccountStore interface {
	Add(account Account) error
	List() ([]Account, error)
	Activate(id string) (Account, error)
	Remove(id string) (Account, error)
	Active() (Account, error)
}
