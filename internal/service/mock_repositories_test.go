package service

import (
	"sort"
	"sync"
	"time"

	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/repository"
	"gorm.io/gorm"
)

// MockUserRepository is an in-memory implementation of the user repository
// for testing. The phone unique index is simulated with a map lookup.
type MockUserRepository struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) WithTx(tx *gorm.DB) repository.UserRepositoryInterface {
	return m
}

func (m *MockUserRepository) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == user.Phone {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByPhone(phone string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockUserRepository) UpdatePresence(userID uint, isOnline bool, lastSeen time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsOnline = isOnline
	user.LastSeen = &lastSeen
	return nil
}

func (m *MockUserRepository) ListContactCandidates(excludeID uint, limit int) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for id := range m.users {
		if id != excludeID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (m *MockUserRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// MockChatRepository simulates the chat directory, including the pair-key
// unique index that backs private-chat dedup: a second insert for the same
// unordered pair fails with gorm.ErrDuplicatedKey just like Postgres.
type MockChatRepository struct {
	mu      sync.Mutex
	chats   map[uint]*models.Chat
	members map[uint][]models.ChatMember
	pairs   map[string]uint
	nextID  uint

	users    *MockUserRepository
	messages *MockMessageRepository
}

func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{
		chats:   make(map[uint]*models.Chat),
		members: make(map[uint][]models.ChatMember),
		pairs:   make(map[string]uint),
		nextID:  1,
	}
}

// WithStores wires in the user and message mocks so ListSummaries can join
// display fields, last messages and unread counts the way the SQL does.
func (m *MockChatRepository) WithStores(users *MockUserRepository, messages *MockMessageRepository) *MockChatRepository {
	m.users = users
	m.messages = messages
	return m
}

func (m *MockChatRepository) WithTx(tx *gorm.DB) repository.ChatRepositoryInterface {
	return m
}

func (m *MockChatRepository) CreatePrivate(userA, userB uint) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pairKey := models.PairKey(userA, userB)
	if _, exists := m.pairs[pairKey]; exists {
		return nil, gorm.ErrDuplicatedKey
	}

	chat := &models.Chat{
		ID:        m.nextID,
		Type:      models.PrivateChat,
		CreatedBy: userA,
		PairKey:   &pairKey,
		CreatedAt: time.Now(),
	}
	m.nextID++
	m.chats[chat.ID] = chat
	m.pairs[pairKey] = chat.ID
	m.members[chat.ID] = []models.ChatMember{
		{ChatID: chat.ID, UserID: userA, Role: models.RoleAdmin},
		{ChatID: chat.ID, UserID: userB, Role: models.RoleMember},
	}
	return chat, nil
}

func (m *MockChatRepository) FindPrivateByMembers(userA, userB uint) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if chatID, ok := m.pairs[models.PairKey(userA, userB)]; ok {
		return m.chats[chatID], nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockChatRepository) CreateGroup(chat *models.Chat, memberIDs []uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if chat.ID == 0 {
		chat.ID = m.nextID
		m.nextID++
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	m.chats[chat.ID] = chat
	for _, id := range memberIDs {
		role := models.RoleMember
		if id == chat.CreatedBy {
			role = models.RoleAdmin
		}
		m.members[chat.ID] = append(m.members[chat.ID], models.ChatMember{
			ChatID: chat.ID,
			UserID: id,
			Role:   role,
		})
	}
	return nil
}

func (m *MockChatRepository) FindByID(id uint) (*models.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if chat, ok := m.chats[id]; ok {
		return chat, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockChatRepository) IsMember(chatID, userID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members[chatID] {
		if member.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockChatRepository) MemberIDs(chatID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for _, member := range m.members[chatID] {
		ids = append(ids, member.UserID)
	}
	return ids, nil
}

func (m *MockChatRepository) ListSummaries(userID uint) ([]models.ChatSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var summaries []models.ChatSummary
	for chatID, chat := range m.chats {
		if !m.hasMemberLocked(chatID, userID) {
			continue
		}

		summary := models.ChatSummary{
			ID:     chat.ID,
			Type:   chat.Type,
			Name:   chat.Name,
			Avatar: chat.Avatar,
		}

		if chat.Type == models.PrivateChat {
			for _, member := range m.members[chatID] {
				if member.UserID == userID {
					continue
				}
				if m.users != nil {
					if peer, ok := m.users.users[member.UserID]; ok {
						summary.DisplayName = peer.Name
						summary.DisplayAvatar = peer.Avatar
					}
				}
			}
		} else {
			if chat.Name != nil {
				summary.DisplayName = *chat.Name
			}
			summary.DisplayAvatar = chat.Avatar
		}

		if m.messages != nil {
			last, unread := m.messages.summarize(chatID, userID)
			if last != nil {
				content := last.Content
				createdAt := last.CreatedAt
				summary.LastMessage = &content
				summary.LastMessageTime = &createdAt
			}
			summary.UnreadCount = unread
		}

		summaries = append(summaries, summary)
	}

	// Most recent activity first, chats without messages last.
	sort.Slice(summaries, func(i, j int) bool {
		ti, tj := summaries[i].LastMessageTime, summaries[j].LastMessageTime
		switch {
		case ti == nil && tj == nil:
			return summaries[i].ID > summaries[j].ID
		case ti == nil:
			return false
		case tj == nil:
			return true
		case ti.Equal(*tj):
			return summaries[i].ID > summaries[j].ID
		default:
			return ti.After(*tj)
		}
	})
	return summaries, nil
}

func (m *MockChatRepository) hasMemberLocked(chatID, userID uint) bool {
	for _, member := range m.members[chatID] {
		if member.UserID == userID {
			return true
		}
	}
	return false
}

func (m *MockChatRepository) ChatCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chats)
}

func (m *MockChatRepository) PrivateChatCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, chat := range m.chats {
		if chat.Type == models.PrivateChat {
			count++
		}
	}
	return count
}

// MockMessageRepository is an in-memory message store for testing.
type MockMessageRepository struct {
	mu       sync.Mutex
	messages map[uint]*models.Message
	nextID   uint

	users *MockUserRepository
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		messages: make(map[uint]*models.Message),
		nextID:   1,
	}
}

func (m *MockMessageRepository) WithUsers(users *MockUserRepository) *MockMessageRepository {
	m.users = users
	return m
}

func (m *MockMessageRepository) WithTx(tx *gorm.DB) repository.MessageRepositoryInterface {
	return m
}

func (m *MockMessageRepository) Create(message *models.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if message.ID == 0 {
		message.ID = m.nextID
		m.nextID++
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	m.messages[message.ID] = message
	return nil
}

func (m *MockMessageRepository) FindByID(id uint) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.fillSenderLocked(msg)
	return msg, nil
}

func (m *MockMessageRepository) ListByChat(chatID uint) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listByChatLocked(chatID), nil
}

func (m *MockMessageRepository) ListAndMarkRead(chatID, readerID uint) ([]models.Message, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages := m.listByChatLocked(chatID)
	cleared := m.markChatReadLocked(chatID, readerID)
	return messages, cleared, nil
}

func (m *MockMessageRepository) MarkChatRead(chatID, readerID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markChatReadLocked(chatID, readerID), nil
}

func (m *MockMessageRepository) CountUnread(chatID, userID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, msg := range m.messages {
		if msg.ChatID == chatID && msg.SenderID != userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockMessageRepository) listByChatLocked(chatID uint) []models.Message {
	var result []models.Message
	for _, msg := range m.messages {
		if msg.ChatID != chatID {
			continue
		}
		m.fillSenderLocked(msg)
		result = append(result, *msg)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

func (m *MockMessageRepository) markChatReadLocked(chatID, readerID uint) int64 {
	var cleared int64
	for _, msg := range m.messages {
		if msg.ChatID == chatID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			cleared++
		}
	}
	return cleared
}

func (m *MockMessageRepository) fillSenderLocked(msg *models.Message) {
	if m.users == nil {
		return
	}
	if sender, ok := m.users.users[msg.SenderID]; ok {
		msg.Sender = *sender
	}
}

func (m *MockMessageRepository) summarize(chatID, viewerID uint) (*models.Message, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var last *models.Message
	var unread int64
	for _, msg := range m.messages {
		if msg.ChatID != chatID {
			continue
		}
		if msg.SenderID != viewerID && !msg.IsRead {
			unread++
		}
		if last == nil ||
			msg.CreatedAt.After(last.CreatedAt) ||
			(msg.CreatedAt.Equal(last.CreatedAt) && msg.ID > last.ID) {
			last = msg
		}
	}
	return last, unread
}
