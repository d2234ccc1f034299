package attendance

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
	"github.com/iliyamo/timeclock/internal/utils"
)

// CredentialStore resolves employees for login.
type CredentialStore interface {
	Employee(ctx context.Context, code string) (model.Employee, error)
	UpdatePasswordHash(ctx context.Context, code, hash string) error
}

// Authenticator checks employee credentials.
type Authenticator struct {
	Store      CredentialStore
	BcryptCost int
}

func NewAuthenticator(store CredentialStore, bcryptCost int) *Authenticator {
	return &Authenticator{Store: store, BcryptCost: bcryptCost}
}

// Verify returns the employee for a matching code/password pair or ErrAuth.
// Accounts still holding an unsalted SHA-256 hash are rehashed with bcrypt
// after a successful login.
func (a *Authenticator) Verify(ctx context.Context, code, password string) (model.Employee, error) {
	code = strings.TrimSpace(code)
	if code == "" || password == "" {
		return model.Employee{}, &ValidationError{Message: "code and password are required"}
	}
	emp, err := a.Store.Employee(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Employee{}, ErrAuth
	}
	if err != nil {
		return model.Employee{}, storeErr("load employee", err)
	}
	ok, legacy := utils.VerifyPassword(emp.PasswordHash, password)
	if !ok {
		return model.Employee{}, ErrAuth
	}
	if legacy {
		if hash, err := utils.HashPassword(password, a.BcryptCost); err == nil {
			if err := a.Store.UpdatePasswordHash(ctx, code, hash); err != nil {
				log.Printf("auth: rehash for %s failed: %v", code, err)
			} else {
				emp.PasswordHash = hash
			}
		}
	}
	return emp, nil
}
