package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/pr-poehali-dev/milka-messenger-project/internal/models"
	"gorm.io/gorm"
)

// TestHelper provides utility functions for tests
type TestHelper struct {
	t *testing.T
}

func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// CreateTestUser creates a test user with default values
func (h *TestHelper) CreateTestUser(id uint, phone, name string) *models.User {
	if id == 0 {
		id = 1
	}
	if phone == "" {
		phone = "+10000000000"
	}
	if name == "" {
		name = "Test User"
	}

	return &models.User{
		ID:        id,
		Phone:     phone,
		Name:      name,
		Avatar:    "🦊",
		IsOnline:  false,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// CreateTestMessage creates a test message with default values
func (h *TestHelper) CreateTestMessage(id, chatID, senderID uint, content string) *models.Message {
	if id == 0 {
		id = 1
	}
	if chatID == 0 {
		chatID = 1
	}
	if senderID == 0 {
		senderID = 1
	}
	if content == "" {
		content = "Test message"
	}

	return &models.Message{
		ID:        id,
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		Type:      models.TextMessage,
		IsRead:    false,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// SetupTestEnv sets up required environment variables for testing
func (h *TestHelper) SetupTestEnv() {
	os.Setenv("MAX_MESSAGE_LENGTH", "4000")
	os.Setenv("SEED_CONTACT_LIMIT", "3")
}

// TeardownTestEnv cleans up environment variables after testing
func (h *TestHelper) TeardownTestEnv() {
	os.Unsetenv("MAX_MESSAGE_LENGTH")
	os.Unsetenv("SEED_CONTACT_LIMIT")
}

// AssertEqual checks if two values are equal
func (h *TestHelper) AssertEqual(got, want interface{}, testName string) {
	if got != want {
		h.t.Errorf("%s: got %v, want %v", testName, got, want)
	}
}

// AssertError checks if an error occurred when it should (or shouldn't)
func (h *TestHelper) AssertError(err error, shouldErr bool, testName string) {
	if (err != nil) != shouldErr {
		if shouldErr {
			h.t.Errorf("%s: expected error but got nil", testName)
		} else {
			h.t.Errorf("%s: unexpected error: %v", testName, err)
		}
	}
}

// GetRecordNotFoundError returns the error repositories yield for a miss
func GetRecordNotFoundError() error {
	return gorm.ErrRecordNotFound
}
