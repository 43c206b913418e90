package services

import (
	"context"
	"errors"

	"git.solsynth.dev/hypernet/sociality/pkg/internal/errs"
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type Chats struct {
	db       *gorm.DB
	accounts *Accounts
}

func NewChats(db *gorm.DB, accounts *Accounts) *Chats {
	return &Chats{db: db, accounts: accounts}
}

// Create opens a chat between the creator and the named members. A chat
// never starts with fewer than two distinct members.
func (v *Chats) Create(ctx context.Context, creator models.Account, memberNames []string) (models.Chat, error) {
	var chat models.Chat

	members := []models.Account{creator}
	for _, name := range memberNames {
		account, err := v.accounts.GetByName(ctx, name)
		if err != nil {
			return chat, err
		}
		members = append(members, account)
	}
	members = lo.UniqBy(members, func(item models.Account) uint { return item.ID })

	if len(members) < 2 {
		return chat, errs.InvalidArg("chat requires at least two distinct members")
	}

	chat = models.Chat{Members: members}
	if err := v.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return chat, errs.Wrap(errs.CodeInternal, "unable to create chat", err)
	}

	return chat, nil
}

// Get loads a chat with members and messages; only members may read it.
func (v *Chats) Get(ctx context.Context, chatId uint, viewer models.Account) (models.Chat, error) {
	var chat models.Chat
	if err := v.db.WithContext(ctx).
		Preload("Members").
		Preload("Messages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Messages.Sender").
		First(&chat, "id = ?", chatId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chat, errs.ErrChatNotFound
		}
		return chat, errs.Wrap(errs.CodeInternal, "unable to get chat", err)
	}

	if !lo.ContainsBy(chat.Members, func(item models.Account) bool { return item.ID == viewer.ID }) {
		return chat, errs.ErrNotAMember
	}

	return chat, nil
}

func (v *Chats) ListForAccount(ctx context.Context, account models.Account) ([]models.Chat, error) {
	var chats []models.Chat
	if err := v.db.WithContext(ctx).
		Joins("JOIN chat_members ON chat_members.chat_id = chats.id").
		Where("chat_members.account_id = ?", account.ID).
		Preload("Members").
		Find(&chats).Error; err != nil {
		return nil, errs.Wrap(errs.CodeInternal, "unable to list chats", err)
	}
	return chats, nil
}

// AddMember grows the membership set. Only a current member may add; adding
// someone already present is a no-op. There is no removal path.
func (v *Chats) AddMember(ctx context.Context, chatId uint, actor models.Account, name string) error {
	member, err := v.isMember(ctx, chatId, actor.ID)
	if err != nil {
		return err
	}
	if !member {
		return errs.ErrNotAMember
	}

	target, err := v.accounts.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if already, err := v.isMember(ctx, chatId, target.ID); err != nil {
		return err
	} else if already {
		return nil
	}

	chat := models.Chat{BaseModel: models.BaseModel{ID: chatId}}
	if err := v.db.WithContext(ctx).Model(&chat).Association("Members").Append(&target); err != nil {
		return errs.Wrap(errs.CodeInternal, "unable to add chat member", err)
	}

	return nil
}

// SendMessage appends to the chat's log. Membership is checked at send
// time; a later removal never retroactively invalidates past messages.
func (v *Chats) SendMessage(ctx context.Context, chatId uint, sender models.Account, content string) (models.Message, error) {
	var message models.Message

	if len(content) == 0 {
		return message, errs.InvalidArg("message cannot be empty")
	}

	member, err := v.isMember(ctx, chatId, sender.ID)
	if err != nil {
		return message, err
	}
	if !member {
		return message, errs.ErrNotAMember
	}

	message = models.Message{
		Content:  content,
		ChatID:   chatId,
		SenderID: sender.ID,
	}
	if err := v.db.WithContext(ctx).Create(&message).Error; err != nil {
		return message, errs.Wrap(errs.CodeInternal, "unable to send message", err)
	}
	message.Sender = sender

	return message, nil
}

func (v *Chats) isMember(ctx context.Context, chatId uint, accountId uint) (bool, error) {
	var chatCount int64
	if err := v.db.WithContext(ctx).Model(&models.Chat{}).Where("id = ?", chatId).Count(&chatCount).Error; err != nil {
		return false, errs.Wrap(errs.CodeInternal, "unable to check chat", err)
	}
	if chatCount == 0 {
		return false, errs.ErrChatNotFound
	}

	var count int64
	if err := v.db.WithContext(ctx).Table("chat_members").
		Where("chat_id = ? AND account_id = ?", chatId, accountId).
		Count(&count).Error; err != nil {
		return false, errs.Wrap(errs.CodeInternal, "unable to check chat membership", err)
	}

	return count > 0, nil
}
