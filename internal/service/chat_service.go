package service

import (
	"errors"

	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/repository"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/validation"
	"gorm.io/gorm"
)

// ChatService is the chat directory: it owns chat and membership records
// and enforces private-chat uniqueness per unordered user pair.
type ChatService struct {
	chatRepo repository.ChatRepositoryInterface
}

func NewChatService(chatRepo repository.ChatRepositoryInterface) *ChatService {
	return &ChatService{chatRepo: chatRepo}
}

type CreateChatInput struct {
	Type        models.ChatType `json:"type"`
	OtherUserID uint            `json:"other_user_id"`
	Name        string          `json:"name"`
	Avatar      string          `json:"avatar"`
	MemberIDs   []uint          `json:"member_ids"`
}

// ListForUser returns every chat the user belongs to as summaries, most
// recently active first; chats without messages sort last.
func (s *ChatService) ListForUser(userID uint) ([]models.ChatSummary, error) {
	return s.chatRepo.ListSummaries(userID)
}

// CreateOrGetPrivate returns the existing private chat for the pair or
// creates it. Exactly one chat per unordered pair survives, no matter how
// many callers race.
func (s *ChatService) CreateOrGetPrivate(userID, otherUserID uint) (uint, bool, error) {
	if otherUserID == 0 {
		return 0, false, models.ErrRecipientRequired
	}
	if userID == otherUserID {
		return 0, false, models.ErrSelfChat
	}
	return createOrGetPrivate(s.chatRepo, userID, otherUserID)
}

// createOrGetPrivate is the uniqueness invariant's enforcement point:
// check, insert under the pair-key unique index, and on a duplicate-key
// loss re-read the winner. Shared with registration seeding.
func createOrGetPrivate(repo repository.ChatRepositoryInterface, userID, otherUserID uint) (uint, bool, error) {
	existing, err := repo.FindPrivateByMembers(userID, otherUserID)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	chat, err := repo.CreatePrivate(userID, otherUserID)
	if err == nil {
		return chat.ID, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return 0, false, err
	}

	// A concurrent caller created the chat between our check and insert.
	winner, err := repo.FindPrivateByMembers(userID, otherUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, models.ErrConflict
	}
	if err != nil {
		return 0, false, err
	}
	return winner.ID, false, nil
}

// CreateGroup always creates a new chat; groups have no pairwise dedup.
// The creator joins as admin, everyone else as member.
func (s *ChatService) CreateGroup(creatorID uint, input CreateChatInput) (uint, error) {
	name := validation.NormalizeName(input.Name)
	if name == "" {
		return 0, models.ErrNameRequired
	}
	avatar := input.Avatar
	if avatar == "" {
		avatar = validation.DefaultGroupAvatar
	}

	memberIDs := []uint{creatorID}
	seen := map[uint]bool{creatorID: true}
	for _, id := range input.MemberIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		memberIDs = append(memberIDs, id)
	}

	chat := &models.Chat{
		Type:      models.GroupChat,
		Name:      &name,
		Avatar:    avatar,
		CreatedBy: creatorID,
	}
	if err := s.chatRepo.CreateGroup(chat, memberIDs); err != nil {
		return 0, err
	}
	return chat.ID, nil
}

func (s *ChatService) MemberIDs(chatID uint) ([]uint, error) {
	return s.chatRepo.MemberIDs(chatID)
}
