package services

import (
	"github.com/eko/gocache/lib/v4/store"
	"gorm.io/gorm"
)

// Service wires every component with exactly the collaborators it needs:
// the durable store, the shared side cache, the local cache and the mailer.
type Service struct {
	Accounts      *Accounts
	Auth          *Auth
	Sessions      *Sessions
	Codes         *OneTimeCodes
	Recovery      *Recovery
	Relationships *Relationships
	Chats         *Chats
	Posts         *Posts
	Cleaner       *Cleaner
}

func NewService(db *gorm.DB, shared store.StoreInterface, local store.StoreInterface, mailer MailSender) *Service {
	accounts := NewAccounts(db)
	sessions := NewSessions(shared)
	codes := NewOneTimeCodes(shared)

	return &Service{
		Accounts:      accounts,
		Auth:          NewAuth(accounts, sessions),
		Sessions:      sessions,
		Codes:         codes,
		Recovery:      NewRecovery(accounts, codes, mailer),
		Relationships: NewRelationships(db, local),
		Chats:         NewChats(db, accounts),
		Posts:         NewPosts(db),
		Cleaner:       NewCleaner(db),
	}
}
