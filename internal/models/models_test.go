package models

import (
	"testing"
	"time"
)

func TestPairKey(t *testing.T) {
	tests := []struct {
		name  string
		userA uint
		userB uint
		want  string
	}{
		{"Ascending pair", 1, 2, "1:2"},
		{"Descending pair canonicalized", 2, 1, "1:2"},
		{"Large ids", 100500, 7, "7:100500"},
		{"Equal ids", 5, 5, "5:5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PairKey(tt.userA, tt.userB); got != tt.want {
				t.Errorf("PairKey(%d, %d) = %q, want %q", tt.userA, tt.userB, got, tt.want)
			}
		})
	}
}

func TestUserToResponse(t *testing.T) {
	lastSeen := time.Now()
	user := User{
		ID:       7,
		Phone:    "+79991234567",
		Name:     "Ann",
		Avatar:   "🦊",
		IsOnline: true,
		LastSeen: &lastSeen,
	}

	resp := user.ToResponse()
	if resp.ID != user.ID || resp.Phone != user.Phone || resp.Name != user.Name {
		t.Errorf("ToResponse dropped identity fields: %+v", resp)
	}
	if resp.Avatar != "🦊" || !resp.IsOnline {
		t.Errorf("ToResponse dropped profile fields: %+v", resp)
	}
	if resp.LastSeen == nil || !resp.LastSeen.Equal(lastSeen) {
		t.Errorf("ToResponse last_seen = %v, want %v", resp.LastSeen, lastSeen)
	}
}

func TestMessageToResponse(t *testing.T) {
	createdAt := time.Now()
	message := Message{
		ID:        3,
		ChatID:    1,
		SenderID:  7,
		Content:   "hello",
		Type:      TextMessage,
		IsRead:    true,
		CreatedAt: createdAt,
		Sender: User{
			ID:     7,
			Name:   "Ann",
			Avatar: "🦊",
		},
	}

	resp := message.ToResponse()
	if resp.ID != 3 || resp.ChatID != 1 || resp.SenderID != 7 {
		t.Errorf("ToResponse dropped identity fields: %+v", resp)
	}
	if resp.Content != "hello" || resp.Type != TextMessage || !resp.IsRead {
		t.Errorf("ToResponse dropped payload fields: %+v", resp)
	}
	if resp.SenderName != "Ann" || resp.SenderAvatar != "🦊" {
		t.Errorf("ToResponse sender projection = (%q, %q), want (Ann, 🦊)", resp.SenderName, resp.SenderAvatar)
	}
	if !resp.CreatedAt.Equal(createdAt) {
		t.Errorf("ToResponse created_at = %v, want %v", resp.CreatedAt, createdAt)
	}
}
