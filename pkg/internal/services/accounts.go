package services

import (
	"context"
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type Accounts struct {
	db *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db}
}

// Create registers a new identity. Username uniqueness is checked up front
// and enforced again by the unique index, so a racing duplicate still maps
// to the same error.
func (v *Accounts) Create(ctx context.Context, name, nick, password string) (models.Account, error) {
	var account models.Account

	if len(password) < MinPasswordLength {
		return account, errs.ErrPasswordTooShort
	}

	var count int64
	if err := v.db.WithContext(ctx).Model(&models.Account{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return account, errs.Wrap(errs.CodeInternal, "unable to check username", err)
	} else if count > 0 {
		return account, errs.ErrUsernameTaken
	}

	hash, err := HashPassword(password)
	if err != nil {
		return account, errs.Wrap(errs.CodeInternal, "unable to hash password", err)
	}

	account = models.Account{
		Token:        uuid.NewString(),
		Name:         name,
		Nick:         lo.Ternary(len(nick) > 0, nick, name),
		PasswordHash: hash,
	}

	if err := v.db.WithContext(ctx).Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return account, errs.ErrUsernameTaken
		}
		return account, errs.Wrap(errs.CodeInternal, "unable to create account", err)
	}

	return account, nil
}

func (v *Accounts) GetByName(ctx context.Context, name string) (models.Account, error) {
	var account models.Account
	if err := v.db.WithContext(ctx).Where("name = ?", name).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, errs.ErrAccountNotFound
		}
		return account, errs.Wrap(errs.CodeInternal, fmt.Sprintf("unable to get account %s", name), err)
	}
	return account, nil
}

func (v *Accounts) GetByToken(ctx context.Context, token string) (models.Account, error) {
	var account models.Account
	if err := v.db.WithContext(ctx).Where("token = ?", token).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, errs.ErrAccountNotFound
		}
		return account, errs.Wrap(errs.CodeInternal, "unable to get account by token", err)
	}
	return account, nil
}

// ProfileUpdate carries only the fields the caller wants to change.
type ProfileUpdate struct {
	Nick          *string
	Avatar        *string
	Description   *string
	RecoveryEmail *string
}

func (v *Accounts) UpdateProfile(ctx context.Context, account models.Account, update ProfileUpdate) (models.Account, error) {
	changes := map[string]any{}
	if update.Nick != nil {
		changes["nick"] = *update.Nick
	}
	if update.Avatar != nil {
		changes["avatar"] = *update.Avatar
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.RecoveryEmail != nil {
		changes["recovery_email"] = *update.RecoveryEmail
	}
	if len(changes) == 0 {
		return account, nil
	}

	if err := v.db.WithContext(ctx).Model(&account).Updates(changes).Error; err != nil {
		return account, errs.Wrap(errs.CodeInternal, "unable to update profile", err)
	}

	return account, nil
}

// SetPassword validates the policy, hashes and persists the credential.
// Existing sessions stay valid; there is no forced logout elsewhere.
func (v *Accounts) SetPassword(ctx context.Context, account models.Account, newSecret string) error {
	if len(newSecret) < MinPasswordLength {
		return errs.ErrPasswordTooShort
	}

	hash, err := HashPassword(newSecret)
	if err != nil {
		return errs.Wrap(errs.CodeInternal, "unable to hash password", err)
	}

	if err := v.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("password_hash", hash).Error; err != nil {
		return errs.Wrap(errs.CodeInternal, "unable to update password", err)
	}

	return nil
}

// ChangePassword is the session-bound rotation path: the old secret must
// verify before the new one is accepted.
func (v *Accounts) ChangePassword(ctx context.Context, account models.Account, oldSecret, newSecret, confirmSecret string) error {
	if !VerifyPassword(account.PasswordHash, oldSecret) {
		return errs.ErrWrongPassword
	}
	if newSecret != confirmSecret {
		return errs.ErrPasswordMismatch
	}

	return v.SetPassword(ctx, account, newSecret)
}

// Delete removes the account and best-effort cascades its owned edges:
// follow edges in both directions, likes (with counter repair) and chat
// memberships. Posts, comments and past messages stay, matching the
// send-time membership rule.
func (v *Accounts) Delete(ctx context.Context, account models.Account) error {
	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR following_id = ?", account.ID, account.ID).
			Delete(&models.Relationship{}).Error; err != nil {
			return err
		}

		var likedPosts []uint
		if err := tx.Model(&models.Like{}).Where("account_id = ?", account.ID).
			Pluck("post_id", &likedPosts).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		for _, postId := range likedPosts {
			if err := recountLikes(tx, postId); err != nil {
				return err
			}
		}

		if err := tx.Exec("DELETE FROM chat_members WHERE account_id = ?", account.ID).Error; err != nil {
			return err
		}

		return tx.Delete(&account).Error
	})
}
