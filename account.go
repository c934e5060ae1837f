package cashbook

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Account is a named bucket records can be attached to (a bank account, a broker...).
type Account struct {
	ID   string
	Name string
}

// NewAccount returns an Account with a fresh ID. The name is trimmed and must not be empty.
func NewAccount(name string) (Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Account{}, errors.New("account name cannot be empty")
	}
	return Account{ID: uuid.NewString(), Name: name}, nil
}

// MarshalJSON implements the json.Marshaler interface for Account.
func (a Account) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", KindAccount)
	w.Append("id", a.ID)
	w.Append("name", a.Name)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Account.
func (a *Account) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	a.ID, a.Name = temp.ID, temp.Name
	return nil
}
