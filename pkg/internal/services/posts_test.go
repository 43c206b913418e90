package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeIdempotence(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	accounts := NewAccounts(db)
	posts := NewPosts(db)

	alice, err := accounts.Create(ctx, "alice", "", "secret1")
	require.NoError(t, err)
	post, err := posts.Create(ctx, alice, "hello world")
	require.NoError(t, err)

	require.NoError(t, posts.Like(ctx, alice, post.ID))
	require.NoError(t, posts.Like(ctx, alice, post.ID))

	count, err := posts.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	refreshed, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, refreshed.TotalLikes)

	require.NoError(t, posts.Unlike(ctx, alice, post.ID))
	require.NoError(t, posts.Unlike(ctx, alice, post.ID))

	count, err = posts.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	refreshed, err = posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, refreshed.TotalLikes)
}

func TestLikeCounterMatchesEdgeSet(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	accounts := NewAccounts(db)
	posts := NewPosts(db)

	author, err := accounts.Create(ctx, "author", "", "secret1")
	require.NoError(t, err)
	post, err := posts.Create(ctx, author, "count me")
	require.NoError(t, err)

	u1, err := accounts.Create(ctx, "u1", "", "secret1")
	require.NoError(t, err)
	u2, err := accounts.Create(ctx, "u2", "", "secret1")
	require.NoError(t, err)

	require.NoError(t, posts.Like(ctx, u1, post.ID))
	require.NoError(t, posts.Like(ctx, u2, post.ID))

	refreshed, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, refreshed.TotalLikes)

	require.NoError(t, posts.Unlike(ctx, u1, post.ID))

	refreshed, err = posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, refreshed.TotalLikes)
}

func TestConcurrentLikesBothCount(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	accounts := NewAccounts(db)
	posts := NewPosts(db)

	author, err := accounts.Create(ctx, "author", "", "secret1")
	require.NoError(t, err)
	post, err := posts.Create(ctx, author, "race me")
	require.NoError(t, err)

	u1, err := accounts.Create(ctx, "u1", "", "secret1")
	require.NoError(t, err)
	u2, err := accounts.Create(ctx, "u2", "", "secret1")
	require.NoError(t, err)

	// Two racing likes from different users must both land; the per-post
	// lock serializes the recounts so neither write-back is lost.
	var wg sync.WaitGroup
	for _, user := range []models.Account{u1, u2} {
		wg.Add(1)
		go func(user models.Account) {
			defer wg.Done()
			assert.NoError(t, posts.Like(ctx, user, post.ID))
		}(user)
	}
	wg.Wait()

	count, err := posts.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	refreshed, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, refreshed.TotalLikes)
}

func TestLikeMissingPost(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	accounts := NewAccounts(db)
	posts := NewPosts(db)

	alice, err := accounts.Create(ctx, "alice", "", "secret1")
	require.NoError(t, err)

	err = posts.Like(ctx, alice, 9999)
	assert.ErrorIs(t, err, errs.ErrPostNotFound)
	err = posts.Unlike(ctx, alice, 9999)
	assert.ErrorIs(t, err, errs.ErrPostNotFound)
}

func TestPostContentLimits(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	accounts := NewAccounts(db)
	posts := NewPosts(db)

	alice, err := accounts.Create(ctx, "alice", "", "secret1")
	require.NoError(t, err)

	_, err = posts.Create(ctx, alice, strings.Repeat("a", 251))
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))

	_, err = posts.Create(ctx, alice, "")
	require.Error(t, err)

	post, err := posts.Create(ctx, alice, strings.Repeat("a", 250))
	require.NoError(t, err)

	_, err = posts.Comment(ctx, alice, post.ID, strings.Repeat("b", 251))
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))

	comment, err := posts.Comment(ctx, alice, post.ID, "nice one")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)

	refreshed, err := posts.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, refreshed.Comments, 1)
	assert.Equal(t, "nice one", refreshed.Comments[0].Content)
}

func TestFeedListsFollowedAuthorsOnly(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)
	accounts := NewAccounts(db)
	relationships := NewRelationships(db, testStore())
	posts := NewPosts(db)

	alice, err := accounts.Create(ctx, "alice", "", "secret1")
	require.NoError(t, err)
	bob, err := accounts.Create(ctx, "bob", "", "secret1")
	require.NoError(t, err)
	carol, err := accounts.Create(ctx, "carol", "", "secret1")
	require.NoError(t, err)

	_, err = posts.Create(ctx, bob, "from bob")
	require.NoError(t, err)
	_, err = posts.Create(ctx, carol, "from carol")
	require.NoError(t, err)

	require.NoError(t, relationships.Follow(ctx, alice, bob))

	following, err := relationships.FollowingIDs(ctx, alice)
	require.NoError(t, err)

	feed, err := posts.ListFeed(ctx, following, 20, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "from bob", feed[0].Content)

	empty, err := posts.ListFeed(ctx, nil, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
