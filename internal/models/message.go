package models

import (
	"time"

	"gorm.io/gorm"
)

type MessageType string

const (
	TextMessage  MessageType = "text"
	ImageMessage MessageType = "image"
)

type Message struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `gorm:"index:idx_messages_chat_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ChatID   uint `gorm:"not null;index:idx_messages_chat_created,priority:1" json:"chat_id"`
	SenderID uint `gorm:"not null;index" json:"sender_id"`
	Sender   User `gorm:"foreignKey:SenderID" json:"-"`

	Content string      `gorm:"type:text;not null" json:"content"`
	Type    MessageType `gorm:"type:varchar(20);default:'text'" json:"type"`

	// IsRead only ever transitions false -> true, flipped when the other
	// party lists the chat. Never reverted.
	IsRead bool `gorm:"default:false" json:"is_read"`
}

type MessageResponse struct {
	ID           uint        `json:"id"`
	ChatID       uint        `json:"chat_id"`
	SenderID     uint        `json:"sender_id"`
	Content      string      `json:"content"`
	Type         MessageType `json:"type"`
	IsRead       bool        `json:"is_read"`
	CreatedAt    time.Time   `json:"created_at"`
	SenderName   string      `json:"sender_name"`
	SenderAvatar string      `json:"sender_avatar"`
}

func (m *Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:           m.ID,
		ChatID:       m.ChatID,
		SenderID:     m.SenderID,
		Content:      m.Content,
		Type:         m.Type,
		IsRead:       m.IsRead,
		CreatedAt:    m.CreatedAt,
		SenderName:   m.Sender.Name,
		SenderAvatar: m.Sender.Avatar,
	}
}
