package services

import (
	"context"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
)

// Auth binds credential verification to the session lifecycle.
type Auth struct {
	accounts *Accounts
	sessions *Sessions
}

func NewAuth(accounts *Accounts, sessions *Sessions) *Auth {
	return &Auth{accounts: accounts, sessions: sessions}
}

// Login verifies the credentials and starts a session. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (v *Auth) Login(ctx context.Context, name, password string) (models.Account, string, error) {
	account, err := v.accounts.GetByName(ctx, name)
	if err != nil {
		return account, "", errs.ErrInvalidCredentials
	}

	if !VerifyPassword(account.PasswordHash, password) {
		return account, "", errs.ErrInvalidCredentials
	}

	sessionId, err := v.sessions.Start(ctx, account.Token)
	if err != nil {
		return account, "", err
	}

	return account, sessionId, nil
}

func (v *Auth) Logout(ctx context.Context, sessionId string) error {
	return v.sessions.End(ctx, sessionId)
}

// Authenticate resolves a session id to its account, the single entry point
// for the request-pipeline authorization gate.
func (v *Auth) Authenticate(ctx context.Context, sessionId string) (models.Account, error) {
	token, ok := v.sessions.Identity(ctx, sessionId)
	if !ok {
		return models.Account{}, errs.ErrUnauthenticated
	}

	account, err := v.accounts.GetByToken(ctx, token)
	if err != nil {
		return account, errs.ErrUnauthenticated
	}

	return account, nil
}
