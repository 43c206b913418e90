package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"gorm.io/gorm"
)

// Relationships maintains the directed follow graph. The following-id list
// is cached in the local store for the feed query and flushed on every
// mutation of the user's edges.
type Relationships struct {
	db    *gorm.DB
	local store.StoreInterface
}

func NewRelationships(db *gorm.DB, local store.StoreInterface) *Relationships {
	return &Relationships{db: db, local: local}
}

func followingCacheKey(userId uint) string {
	return fmt.Sprintf("following-ids#%d", userId)
}

func (v *Relationships) Follow(ctx context.Context, user models.Account, target models.Account) error {
	if user.ID == target.ID {
		return errs.ErrSelfFollow
	}

	var count int64
	if err := v.db.WithContext(ctx).Model(&models.Relationship{}).
		Where("follower_id = ? AND following_id = ?", user.ID, target.ID).
		Count(&count).Error; err != nil {
		return errs.Wrap(errs.CodeInternal, "unable to check follow edge", err)
	} else if count > 0 {
		return errs.ErrAlreadyFollowing
	}

	relationship := models.Relationship{
		FollowerID:  user.ID,
		FollowingID: target.ID,
	}

	if err := v.db.WithContext(ctx).Create(&relationship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.ErrAlreadyFollowing
		}
		return errs.Wrap(errs.CodeInternal, "unable to create follow edge", err)
	}

	v.flushFollowingCache(ctx, user.ID)
	return nil
}

func (v *Relationships) Unfollow(ctx context.Context, user models.Account, target models.Account) error {
	result := v.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", user.ID, target.ID).
		Delete(&models.Relationship{})
	if result.Error != nil {
		return errs.Wrap(errs.CodeInternal, "unable to remove follow edge", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFollowing
	}

	v.flushFollowingCache(ctx, user.ID)
	return nil
}

func (v *Relationships) ListFollowers(ctx context.Context, target models.Account) ([]models.Account, error) {
	var accounts []models.Account
	if err := v.db.WithContext(ctx).
		Joins("JOIN relationships ON relationships.follower_id = accounts.id").
		Where("relationships.following_id = ?", target.ID).
		Find(&accounts).Error; err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "unable to list followers", err)
	}
	return accounts, nil
}

func (v *Relationships) ListFollowing(ctx context.Context, user models.Account) ([]models.Account, error) {
	var accounts []models.Account
	if err := v.db.WithContext(ctx).
		Joins("JOIN relationships ON relationships.following_id = accounts.id").
		Where("relationships.follower_id = ?", user.ID).
		Find(&accounts).Error; err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "unable to list following", err)
	}
	return accounts, nil
}

// FollowingIDs returns the ids of everyone the user follows, serving the
// feed query from the local cache when it can.
func (v *Relationships) FollowingIDs(ctx context.Context, user models.Account) ([]uint, error) {
	cacheManager := cache.New[any](v.local)
	marshal := marshaler.New(cacheManager)

	if cached, err := marshal.Get(ctx, followingCacheKey(user.ID), new([]uint)); err == nil {
		return *cached.(*[]uint), nil
	}

	var ids []uint
	if err := v.db.WithContext(ctx).Model(&models.Relationship{}).
		Where("follower_id = ?", user.ID).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "unable to list following ids", err)
	}

	_ = marshal.Set(
		ctx,
		followingCacheKey(user.ID),
		ids,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{fmt.Sprintf("user#%d", user.ID)}),
	)

	return ids, nil
}

func (v *Relationships) flushFollowingCache(ctx context.Context, userId uint) {
	cacheManager := cache.New[any](v.local)
	_ = cacheManager.Invalidate(ctx, store.WithInvalidateTags([]string{fmt.Sprintf("user#%d", userId)}))
}
