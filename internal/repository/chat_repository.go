package repository

import (
	"strings"

	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) WithTx(tx *gorm.DB) ChatRepositoryInterface {
	if tx == nil {
		return r
	}
	return &ChatRepository{db: tx}
}

// CreatePrivate inserts a private chat plus both memberships in one
// transaction. The unique index on chats.pair_key makes a concurrent insert
// for the same pair fail with gorm.ErrDuplicatedKey; callers catch that and
// return the winner's chat instead.
func (r *ChatRepository) CreatePrivate(userA, userB uint) (*models.Chat, error) {
	pairKey := models.PairKey(userA, userB)
	chat := &models.Chat{
		Type:      models.PrivateChat,
		CreatedBy: userA,
		PairKey:   &pairKey,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		members := []models.ChatMember{
			{ChatID: chat.ID, UserID: userA, Role: models.RoleAdmin},
			{ChatID: chat.ID, UserID: userB, Role: models.RoleMember},
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *ChatRepository) FindPrivateByMembers(userA, userB uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.
		Where("type = ? AND pair_key = ?", models.PrivateChat, models.PairKey(userA, userB)).
		First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// CreateGroup inserts the chat and one membership per member atomically.
// memberIDs must already have the creator first with the admin role applied
// by the caller; no pairwise dedup applies to groups.
func (r *ChatRepository) CreateGroup(chat *models.Chat, memberIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		members := make([]models.ChatMember, 0, len(memberIDs))
		for _, id := range memberIDs {
			role := models.RoleMember
			if id == chat.CreatedBy {
				role = models.RoleAdmin
			}
			members = append(members, models.ChatMember{
				ChatID: chat.ID,
				UserID: id,
				Role:   role,
			})
		}
		return tx.Create(&members).Error
	})
}

func (r *ChatRepository) FindByID(id uint) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.Preload("Members").First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *ChatRepository) IsMember(chatID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ChatRepository) MemberIDs(chatID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ChatMember{}).
		Where("chat_id = ?", chatID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListSummaries builds the per-user chat list in a single query: display
// fields resolved to the other participant for private chats, the latest
// message, and the viewer's unread count. Ties on created_at break by id so
// ordering stays total per chat.
func (r *ChatRepository) ListSummaries(userID uint) ([]models.ChatSummary, error) {
	query := strings.TrimSpace(`
SELECT
	c.id,
	c.type,
	c.name,
	c.avatar,
	COALESCE(CASE
		WHEN c.type = 'private' THEN (
			SELECT u.name FROM users u
			JOIN chat_members cm2 ON cm2.user_id = u.id
			WHERE cm2.chat_id = c.id AND u.id <> ?
			LIMIT 1
		)
		ELSE c.name
	END, '') AS display_name,
	COALESCE(CASE
		WHEN c.type = 'private' THEN (
			SELECT u.avatar FROM users u
			JOIN chat_members cm2 ON cm2.user_id = u.id
			WHERE cm2.chat_id = c.id AND u.id <> ?
			LIMIT 1
		)
		ELSE c.avatar
	END, '') AS display_avatar,
	(SELECT m.content FROM messages m
		WHERE m.chat_id = c.id AND m.deleted_at IS NULL
		ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS last_message,
	(SELECT m.created_at FROM messages m
		WHERE m.chat_id = c.id AND m.deleted_at IS NULL
		ORDER BY m.created_at DESC, m.id DESC LIMIT 1) AS last_message_time,
	(SELECT COUNT(*) FROM messages m
		WHERE m.chat_id = c.id AND m.deleted_at IS NULL
			AND m.sender_id <> ? AND m.is_read = false) AS unread_count
FROM chats c
JOIN chat_members cm ON cm.chat_id = c.id
WHERE cm.user_id = ? AND c.deleted_at IS NULL
ORDER BY last_message_time DESC NULLS LAST, c.id DESC
`)

	var summaries []models.ChatSummary
	err := r.db.Raw(query, userID, userID, userID, userID).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
