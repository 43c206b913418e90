package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"github.com/eko/gocache/lib/v4/store"
)

const RecoveryCodeLifetime = 24 * time.Hour

// OneTimeCodes is the ephemeral token store: short-lived single-purpose
// codes kept in the side cache with an absolute TTL. Expiry is enforced by
// the cache itself and never refreshed on read.
type OneTimeCodes struct {
	store store.StoreInterface
	locks *keyedMutex
}

func NewOneTimeCodes(s store.StoreInterface) *OneTimeCodes {
	return &OneTimeCodes{store: s, locks: newKeyedMutex()}
}

func codeKey(code string) string {
	return fmt.Sprintf("one-time-code#%s", code)
}

// Issue generates a 128-bit random code bound to ownerKey for ttl from now.
func (v *OneTimeCodes) Issue(ctx context.Context, ownerKey string, ttl time.Duration) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errs.Wrap(errs.CodeInternal, "unable to generate one-time code", err)
	}
	code := hex.EncodeToString(buf)

	if err := v.store.Set(ctx, codeKey(code), ownerKey, store.WithExpiration(ttl)); err != nil {
		return "", errs.Wrap(errs.CodeInternal, "unable to persist one-time code", err)
	}

	return code, nil
}

// Peek resolves a code to its owner key without consuming it. Deleting the
// code after a successful use is the caller's explicit responsibility, so a
// mismatch on the caller's side does not burn a valid code.
func (v *OneTimeCodes) Peek(ctx context.Context, code string) (string, error) {
	value, err := v.store.Get(ctx, codeKey(code))
	if err != nil {
		return "", errs.ErrInvalidCode
	}

	switch owner := value.(type) {
	case string:
		return owner, nil
	case []byte:
		return string(owner), nil
	default:
		return "", errs.ErrInvalidCode
	}
}

// Invalidate deletes the code unconditionally. Invalidating an absent code
// is not an error.
func (v *OneTimeCodes) Invalidate(ctx context.Context, code string) error {
	if err := v.store.Delete(ctx, codeKey(code)); err != nil {
		return errs.Wrap(errs.CodeInternal, "unable to invalidate one-time code", err)
	}
	return nil
}

// Serialize takes the per-code lock and returns its release. Redemption
// must hold it across the whole peek-reset-invalidate sequence so racing
// redeemers cannot both spend the same code.
func (v *OneTimeCodes) Serialize(code string) func() {
	v.locks.Lock(code)
	return func() { v.locks.Unlock(code) }
}
