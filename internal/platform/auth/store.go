package auth

import (
	"context"

	"presence-analyzer/internal/platform/config"
)

type Account struct {
	ID           string
	PasswordHash string
	Role         string
	IsDisabled   bool
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*Account, error)
}

// configStore: config.yaml の auth.accounts を読むだけ（書き込みなし）
type configStore struct {
	accounts map[string]Account
}

func NewConfigStore(accounts []config.Account) AccountStore {
	m := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		role := a.Role
		if role == "" {
			role = RoleUser
		}
		m[a.ID] = Account{
			ID:           a.ID,
			PasswordHash: a.PasswordHash,
			Role:         role,
			IsDisabled:   a.Disabled,
		}
	}
	return &configStore{accounts: m}
}

// 見つからなければ nil, nil
func (s *configStore) GetByID(_ context.Context, id string) (*Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}
