package services

import (
	"context"
	"testing"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatFixture(t *testing.T) (context.Context, *Accounts, *Chats) {
	t.Helper()
	db := testDB(t)
	accounts := NewAccounts(db)
	return context.Background(), accounts, NewChats(db, accounts)
}

func TestCreateChat(t *testing.T) {
	ctx, accounts, chats := chatFixture(t)

	alice, err := accounts.Create(ctx, "alice", "", "secret1")
	require.NoError(t, err)
	_, err = accounts.Create(ctx, "bob", "", "secret1")
	require.NoError(t, err)

	chat, err := chats.Create(ctx, alice, []string{"bob"})
	require.NoError(t, err)
	assert.Len(t, chat.Members, 2)

	// The creator alone is not a chat.
	_, err = chats.Create(ctx, alice, []string{"alice"})
	require.Error(t, err)
	assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))

	_, err = chats.Create(ctx, alice, []string{"nobody"})
	assert.ErrorIs(t, err, errs.ErrAccountNotFound)
}

func TestChatMembershipGuardsMessages(t *testing.T) {
	ctx, accounts, chats := chatFixture(t)

	alice, err := accounts.Create(ctx, "alice", "", "secret1")
	require.NoError(t, err)
	_, err = accounts.Create(ctx, "bob", "", "secret1")
	require.NoError(t, err)
	eve, err := accounts.Create(ctx, "eve", "", "secret1")
	require.NoError(t, err)

	chat, err := chats.Create(ctx, alice, []string{"bob"})
	require.NoError(t, err)

	_, err = chats.SendMessage(ctx, chat.ID, alice, "hi bob")
	require.NoError(t, err)

	_, err = chats.SendMessage(ctx, chat.ID, eve, "let me in")
	assert.ErrorIs(t, err, errs.ErrNotAMember)

	_, err = chats.Get(ctx, chat.ID, eve)
	assert.ErrorIs(t, err, errs.ErrNotAMember)

	_, err = chats.SendMessage(ctx, 9999, alice, "hello?")
	assert.ErrorIs(t, err, errs.ErrChatNotFound)
}

func TestChatMembershipOnlyGrows(t *testing.T) {
	ctx, accounts, chats := chatFixture(t)

	alice, err := accounts.Create(ctx, "alice", "", "secret1")
	require.NoError(t, err)
	_, err = accounts.Create(ctx, "bob", "", "secret1")
	require.NoError(t, err)
	eve, err := accounts.Create(ctx, "eve", "", "secret1")
	require.NoError(t, err)

	chat, err := chats.Create(ctx, alice, []string{"bob"})
	require.NoError(t, err)

	// Outsiders may not add members, members may.
	err = chats.AddMember(ctx, chat.ID, eve, "eve")
	assert.ErrorIs(t, err, errs.ErrNotAMember)

	require.NoError(t, chats.AddMember(ctx, chat.ID, alice, "eve"))
	// Adding an existing member is a no-op, never a removal.
	require.NoError(t, chats.AddMember(ctx, chat.ID, alice, "eve"))

	refreshed, err := chats.Get(ctx, chat.ID, alice)
	require.NoError(t, err)
	assert.Len(t, refreshed.Members, 3)

	// Now a member, eve can speak; messages keep their order.
	_, err = chats.SendMessage(ctx, chat.ID, eve, "hello all")
	require.NoError(t, err)

	refreshed, err = chats.Get(ctx, chat.ID, eve)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.Messages)
	assert.Equal(t, "hello all", refreshed.Messages[len(refreshed.Messages)-1].Content)
}

func TestListChatsForAccount(t *testing.T) {
	ctx, accounts, chats := chatFixture(t)

	alice, err := accounts.Create(ctx, "alice", "", "secret1")
	require.NoError(t, err)
	bob, err := accounts.Create(ctx, "bob", "", "secret1")
	require.NoError(t, err)
	_, err = accounts.Create(ctx, "carol", "", "secret1")
	require.NoError(t, err)

	_, err = chats.Create(ctx, alice, []string{"bob"})
	require.NoError(t, err)
	_, err = chats.Create(ctx, bob, []string{"carol"})
	require.NoError(t, err)

	mine, err := chats.ListForAccount(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := chats.ListForAccount(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)
}
