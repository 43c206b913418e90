package services

import (
	"context"
	"fmt"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"github.com/rs/zerolog/log"
)

// Recovery lets a user reset a forgotten password without a session by
// bridging the account store, the one-time code store and the mailer.
type Recovery struct {
	accounts *Accounts
	codes    *OneTimeCodes
	mailer   MailSender
}

func NewRecovery(accounts *Accounts, codes *OneTimeCodes, mailer MailSender) *Recovery {
	return &Recovery{accounts: accounts, codes: codes, mailer: mailer}
}

// RequestReset issues a one-time code for the account and mails it to the
// recovery address. If delivery fails the code is not rolled back; it
// simply expires unused, and the caller is told delivery failed.
func (v *Recovery) RequestReset(ctx context.Context, name string) error {
	account, err := v.accounts.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if account.RecoveryEmail == nil || len(*account.RecoveryEmail) == 0 {
		return errs.ErrNoRecoveryContact
	}

	code, err := v.codes.Issue(ctx, account.Token, RecoveryCodeLifetime)
	if err != nil {
		return err
	}

	if err := v.mailer.Send(
		*account.RecoveryEmail,
		"Sociality One-Time Code",
		fmt.Sprintf("Your one-time code is %s", code),
	); err != nil {
		log.Warn().Err(err).Str("name", name).Msg("An error occurred when delivering one-time code...")
		return errs.ErrDeliveryFailed(err)
	}

	return nil
}

// CompleteReset redeems a code against an account and rotates the
// credential. The code resolves to an owner key which must equal the named
// account's token; on any mismatch the code is left intact so a mistyped
// username cannot burn it. The whole sequence holds the per-code lock, so
// two racing redemptions cannot both spend one code.
func (v *Recovery) CompleteReset(ctx context.Context, code, name, newSecret, confirmSecret string) error {
	if newSecret != confirmSecret {
		return errs.ErrPasswordMismatch
	}
	if len(newSecret) < MinPasswordLength {
		return errs.ErrPasswordTooShort
	}

	release := v.codes.Serialize(code)
	defer release()

	ownerKey, err := v.codes.Peek(ctx, code)
	if err != nil {
		return errs.ErrInvalidCode
	}

	account, err := v.accounts.GetByName(ctx, name)
	if err != nil {
		return errs.ErrInvalidCode
	}
	if ownerKey != account.Token {
		return errs.ErrInvalidCode
	}

	if err := v.accounts.SetPassword(ctx, account, newSecret); err != nil {
		return err
	}

	// Invalidation happens only after the credential update succeeded.
	if err := v.codes.Invalidate(ctx, code); err != nil {
		log.Warn().Err(err).Msg("An error occurred when invalidating a redeemed code...")
	}

	return nil
}
