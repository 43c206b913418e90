package services

import (
	"context"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/google/uuid"
)

// Sessions are remember-me by default: a long fixed lifetime, no
// refresh-on-read. Short-lived secrets belong to OneTimeCodes instead.
const SessionLifetime = 365 * 24 * time.Hour

// Sessions binds client-presented session ids to identity tokens in the
// shared side cache.
type Sessions struct {
	store store.StoreInterface
}

func NewSessions(s store.StoreInterface) *Sessions {
	return &Sessions{store: s}
}

func sessionKey(id string) string {
	return fmt.Sprintf("sessions#%s", id)
}

func (v *Sessions) Start(ctx context.Context, identityToken string) (string, error) {
	id := uuid.NewString()
	if err := v.store.Set(ctx, sessionKey(id), identityToken, store.WithExpiration(SessionLifetime)); err != nil {
		return "", errs.ErrSessionStore(err)
	}
	return id, nil
}

// Identity is a pure lookup with no side effects.
func (v *Sessions) Identity(ctx context.Context, id string) (string, bool) {
	value, err := v.store.Get(ctx, sessionKey(id))
	if err != nil {
		return "", false
	}

	switch token := value.(type) {
	case string:
		return token, true
	case []byte:
		return string(token), true
	default:
		return "", false
	}
}

// End destroys the session. A store failure is surfaced to the caller, not
// swallowed; the HTTP layer clears the client cookie as part of the same
// logical operation.
func (v *Sessions) End(ctx context.Context, id string) error {
	if err := v.store.Delete(ctx, sessionKey(id)); err != nil {
		return errs.ErrSessionStore(err)
	}
	return nil
}
