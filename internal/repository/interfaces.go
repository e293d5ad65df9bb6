package repository

import (
	"time"

	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"gorm.io/gorm"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	WithTx(tx *gorm.DB) UserRepositoryInterface
	Create(user *models.User) error
	FindByPhone(phone string) (*models.User, error)
	FindByID(id uint) (*models.User, error)
	UpdatePresence(userID uint, isOnline bool, lastSeen time.Time) error
	ListContactCandidates(excludeID uint, limit int) ([]uint, error)
}

// ChatRepositoryInterface defines the contract for chat directory operations
type ChatRepositoryInterface interface {
	WithTx(tx *gorm.DB) ChatRepositoryInterface
	CreatePrivate(userA, userB uint) (*models.Chat, error)
	FindPrivateByMembers(userA, userB uint) (*models.Chat, error)
	CreateGroup(chat *models.Chat, memberIDs []uint) error
	FindByID(id uint) (*models.Chat, error)
	IsMember(chatID, userID uint) (bool, error)
	MemberIDs(chatID uint) ([]uint, error)
	ListSummaries(userID uint) ([]models.ChatSummary, error)
}

// MessageRepositoryInterface defines the contract for message store operations
type MessageRepositoryInterface interface {
	WithTx(tx *gorm.DB) MessageRepositoryInterface
	Create(message *models.Message) error
	FindByID(id uint) (*models.Message, error)
	ListByChat(chatID uint) ([]models.Message, error)
	ListAndMarkRead(chatID, readerID uint) ([]models.Message, int64, error)
	MarkChatRead(chatID, readerID uint) (int64, error)
	CountUnread(chatID, userID uint) (int64, error)
}
