package service

import (
	"errors"
	"time"

	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/repository"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/session"
	"github.com/pr-poehali-dev/milka-messenger-project/internal/validation"
	"gorm.io/gorm"
)

// AuthService is the identity store: phone numbers are the natural key, and
// registering an already-known phone behaves as a login. No password or
// possession proof exists in this model (inherited gap, see session pkg).
type AuthService struct {
	db        *gorm.DB
	userRepo  repository.UserRepositoryInterface
	chatRepo  repository.ChatRepositoryInterface
	seedLimit int
}

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepositoryInterface,
	chatRepo repository.ChatRepositoryInterface,
	seedLimit int,
) *AuthService {
	return &AuthService{
		db:        db,
		userRepo:  userRepo,
		chatRepo:  chatRepo,
		seedLimit: seedLimit,
	}
}

type RegisterInput struct {
	Phone  string `json:"phone"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type LoginInput struct {
	Phone string `json:"phone"`
}

type AuthResponse struct {
	User         models.UserResponse `json:"user"`
	SessionToken string              `json:"session_token"`
}

func (s *AuthService) runInTx(fn func(tx *gorm.DB) error) error {
	if s.db == nil {
		return fn(nil)
	}
	return s.db.Transaction(fn)
}

// Register creates the user and seeds their initial private chats in one
// atomic unit, or returns the existing user when the phone is already
// registered. The created flag tells the two apart.
func (s *AuthService) Register(input RegisterInput) (*AuthResponse, bool, error) {
	phone := validation.NormalizePhone(input.Phone)
	name := validation.NormalizeName(input.Name)
	avatar := input.Avatar
	if avatar == "" {
		avatar = validation.DefaultUserAvatar
	}

	if phone == "" {
		return nil, false, models.ErrPhoneRequired
	}
	if name == "" {
		return nil, false, models.ErrNameRequired
	}

	var user *models.User
	created := false
	err := s.runInTx(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		existing, err := users.FindByPhone(phone)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user = &models.User{
			Phone:    phone,
			Name:     name,
			Avatar:   avatar,
			IsOnline: true,
		}
		if err := users.Create(user); err != nil {
			return err
		}
		created = true

		return s.seedInitialContacts(tx, user.ID)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a registration race for this phone; the winner's row is the
		// idempotent answer.
		existing, findErr := s.userRepo.FindByPhone(phone)
		if findErr != nil {
			return nil, false, findErr
		}
		user = existing
		created = false
	} else if err != nil {
		return nil, false, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		SessionToken: session.Issue(phone),
	}, created, nil
}

// seedInitialContacts opens private chats with a bounded set of existing
// users so a fresh account is not empty. Runs through the same dedup path
// as explicit chat creation, so the pair-uniqueness invariant holds.
func (s *AuthService) seedInitialContacts(tx *gorm.DB, newUserID uint) error {
	if s.seedLimit <= 0 {
		return nil
	}
	candidates, err := s.userRepo.WithTx(tx).ListContactCandidates(newUserID, s.seedLimit)
	if err != nil {
		return err
	}
	chats := s.chatRepo.WithTx(tx)
	for _, candidateID := range candidates {
		if _, _, err := createOrGetPrivate(chats, newUserID, candidateID); err != nil {
			return err
		}
	}
	return nil
}

func (s *AuthService) Login(input LoginInput) (*AuthResponse, error) {
	phone := validation.NormalizePhone(input.Phone)
	if phone == "" {
		return nil, models.ErrPhoneRequired
	}

	user, err := s.userRepo.FindByPhone(phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.userRepo.UpdatePresence(user.ID, true, now); err != nil {
		return nil, err
	}
	user.IsOnline = true
	user.LastSeen = &now

	return &AuthResponse{
		User:         user.ToResponse(),
		SessionToken: session.Issue(phone),
	}, nil
}
