package repository

import (
	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) WithTx(tx *gorm.DB) MessageRepositoryInterface {
	if tx == nil {
		return r
	}
	return &MessageRepository{db: tx}
}

func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *MessageRepository) FindByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("Sender").First(&message, id).Error
	return &message, err
}

// ListByChat returns the chat's messages oldest first. Equal timestamps
// resolve by insertion order (id), keeping the ordering total and stable.
func (r *MessageRepository) ListByChat(chatID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// ListAndMarkRead fetches the chat chronologically and flips the other
// parties' unread messages to read in the same transaction, so unread
// counts computed after this returns already see the transition.
func (r *MessageRepository) ListAndMarkRead(chatID, readerID uint) ([]models.Message, int64, error) {
	var messages []models.Message
	var cleared int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &MessageRepository{db: tx}
		var err error
		if messages, err = txRepo.ListByChat(chatID); err != nil {
			return err
		}
		cleared, err = txRepo.MarkChatRead(chatID, readerID)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return messages, cleared, nil
}

// MarkChatRead transitions every message in the chat that the reader did
// not send from unread to read. One-directional; already-read rows are
// untouched.
func (r *MessageRepository) MarkChatRead(chatID, readerID uint) (int64, error) {
	res := r.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *MessageRepository) CountUnread(chatID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, userID, false).
		Count(&count).Error
	return count, err
}
