package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Posts owns the post/like/comment surface and keeps the denormalized like
// counter equal to the cardinality of the likes table. The counter is
// recomputed after every mutation under a per-post lock, so it converges
// instead of drifting, and a missed update heals on the next write.
type Posts struct {
	db    *gorm.DB
	locks *keyedMutex
}

func NewPosts(db *gorm.DB) *Posts {
	return &Posts{db: db, locks: newKeyedMutex()}
}

func postLockKey(postId uint) string {
	return fmt.Sprintf("post#%d", postId)
}

func (v *Posts) Create(ctx context.Context, author models.Account, content string) (models.Post, error) {
	var post models.Post

	if utf8.RuneCountInString(content) > models.MaxPostLength {
		return post, errs.InvalidArg(fmt.Sprintf("post cannot be longer than %d characters", models.MaxPostLength))
	}
	if len(content) == 0 {
		return post, errs.InvalidArg("post cannot be empty")
	}

	post = models.Post{
		Content:  content,
		AuthorID: author.ID,
	}
	if err := v.db.WithContext(ctx).Create(&post).Error; err != nil {
		return post, errs.Wrap(errs.CodeInternal, "unable to create post", err)
	}
	post.Author = author

	return post, nil
}

func (v *Posts) Get(ctx context.Context, postId uint) (models.Post, error) {
	var post models.Post
	if err := v.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments").
		Preload("Comments.Author").
		First(&post, "id = ?", postId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post, errs.ErrPostNotFound
		}
		return post, errs.Wrap(errs.CodeInternal, "unable to get post", err)
	}
	return post, nil
}

func (v *Posts) List(ctx context.Context, take int, offset int) ([]models.Post, error) {
	if take <= 0 || take > 100 {
		take = 20
	}

	var posts []models.Post
	if err := v.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(take).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "unable to list posts", err)
	}
	return posts, nil
}

// ListFeed lists posts authored by the given accounts, newest first.
func (v *Posts) ListFeed(ctx context.Context, authorIds []uint, take int, offset int) ([]models.Post, error) {
	if len(authorIds) == 0 {
		return []models.Post{}, nil
	}
	if take <= 0 || take > 100 {
		take = 20
	}

	var posts []models.Post
	if err := v.db.WithContext(ctx).
		Preload("Author").
		Where("author_id IN ?", authorIds).
		Order("created_at DESC").
		Limit(take).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "unable to list feed", err)
	}
	return posts, nil
}

// Like is idempotent at the edge level: liking twice leaves one edge and
// still reports success.
func (v *Posts) Like(ctx context.Context, user models.Account, postId uint) error {
	v.locks.Lock(postLockKey(postId))
	defer v.locks.Unlock(postLockKey(postId))

	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := v.ensurePost(tx, postId); err != nil {
			return err
		}

		like := models.Like{AccountID: user.ID, PostID: postId}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
			return errs.Wrap(errs.CodeInternal, "unable to create like", err)
		}

		return recountLikes(tx, postId)
	})
}

// Unlike on a non-existent like is a no-op success, keeping the operation
// idempotent under retries.
func (v *Posts) Unlike(ctx context.Context, user models.Account, postId uint) error {
	v.locks.Lock(postLockKey(postId))
	defer v.locks.Unlock(postLockKey(postId))

	return v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := v.ensurePost(tx, postId); err != nil {
			return err
		}

		if err := tx.Where("account_id = ? AND post_id = ?", user.ID, postId).
			Delete(&models.Like{}).Error; err != nil {
			return errs.Wrap(errs.CodeInternal, "unable to remove like", err)
		}

		return recountLikes(tx, postId)
	})
}

func (v *Posts) CountLikes(ctx context.Context, postId uint) (int64, error) {
	var count int64
	if err := v.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postId).Count(&count).Error; err != nil {
		return 0, errs.Wrap(errs.CodeInternal, "unable to count likes", err)
	}
	return count, nil
}

func (v *Posts) Comment(ctx context.Context, author models.Account, postId uint, content string) (models.Comment, error) {
	var comment models.Comment

	if utf8.RuneCountInString(content) > models.MaxCommentLength {
		return comment, errs.InvalidArg(fmt.Sprintf("comment cannot be longer than %d characters", models.MaxCommentLength))
	}
	if len(content) == 0 {
		return comment, errs.InvalidArg("comment cannot be empty")
	}

	if err := v.ensurePost(v.db.WithContext(ctx), postId); err != nil {
		return comment, err
	}

	comment = models.Comment{
		Content:  content,
		PostID:   postId,
		AuthorID: author.ID,
	}
	if err := v.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return comment, errs.Wrap(errs.CodeInternal, "unable to create comment", err)
	}
	comment.Author = author

	return comment, nil
}

func (v *Posts) ensurePost(tx *gorm.DB, postId uint) error {
	var count int64
	if err := tx.Model(&models.Post{}).Where("id = ?", postId).Count(&count).Error; err != nil {
		return errs.Wrap(errs.CodeInternal, "unable to check post", err)
	}
	if count == 0 {
		return errs.ErrPostNotFound
	}
	return nil
}

// recountLikes writes back count(likes) for the post, never an in-place
// increment. Safe to re-run at any time; it always converges.
func recountLikes(tx *gorm.DB, postId uint) error {
	var count int64
	if err := tx.Model(&models.Like{}).Where("post_id = ?", postId).Count(&count).Error; err != nil {
		return errs.Wrap(errs.CodeInternal, "unable to recount likes", err)
	}
	if err := tx.Model(&models.Post{}).Where("id = ?", postId).
		Update("total_likes", count).Error; err != nil {
		return errs.Wrap(errs.CodeInternal, "unable to update like counter", err)
	}
	return nil
}
