package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type ChatType string

const (
	PrivateChat ChatType = "private"
	GroupChat   ChatType = "group"
)

type ChatRole string

const (
	RoleAdmin  ChatRole = "admin"
	RoleMember ChatRole = "member"
)

type Chat struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Type      ChatType `gorm:"type:varchar(20);not null;index" json:"type"`
	Name      *string  `gorm:"size:100" json:"name"`
	Avatar    string   `json:"avatar"`
	CreatedBy uint     `gorm:"not null" json:"created_by"`

	// PairKey is the canonical "minUserID:maxUserID" key for private chats
	// and null for groups. The unique index on it is what keeps a private
	// chat unique per unordered user pair under concurrent creation.
	PairKey *string `gorm:"uniqueIndex" json:"-"`

	Creator User         `gorm:"foreignKey:CreatedBy" json:"-"`
	Members []ChatMember `gorm:"foreignKey:ChatID" json:"members,omitempty"`
}

// PairKey canonicalizes an unordered user pair into the stored key form.
func PairKey(userA, userB uint) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return fmt.Sprintf("%d:%d", userA, userB)
}

type ChatMember struct {
	ChatID   uint      `gorm:"primaryKey" json:"chat_id"`
	UserID   uint      `gorm:"primaryKey" json:"user_id"`
	Role     ChatRole  `gorm:"type:varchar(20);default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Chat Chat `gorm:"foreignKey:ChatID" json:"-"`
}

// ChatSummary is the read-model projection of a chat for one viewing user:
// private chats are rendered as the other participant, groups as themselves.
type ChatSummary struct {
	ID              uint       `gorm:"column:id" json:"id"`
	Type            ChatType   `gorm:"column:type" json:"type"`
	Name            *string    `gorm:"column:name" json:"name"`
	Avatar          string     `gorm:"column:avatar" json:"avatar"`
	DisplayName     string     `gorm:"column:display_name" json:"display_name"`
	DisplayAvatar   string     `gorm:"column:display_avatar" json:"display_avatar"`
	LastMessage     *string    `gorm:"column:last_message" json:"last_message"`
	LastMessageTime *time.Time `gorm:"column:last_message_time" json:"last_message_time"`
	UnreadCount     int64      `gorm:"column:unread_count" json:"unread_count"`
}
