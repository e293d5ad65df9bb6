package models

import "errors"

var (
	ErrPhoneRequired     = errors.New("phone is required")
	ErrNameRequired      = errors.New("name is required")
	ErrContentRequired   = errors.New("content is required")
	ErrChatRequired      = errors.New("chat_id is required")
	ErrRecipientRequired = errors.New("other_user_id is required")
	ErrSelfChat          = errors.New("cannot open a private chat with yourself")

	ErrUserNotFound = errors.New("user not found")
	ErrChatNotFound = errors.New("chat not found")

	ErrNotChatMember = errors.New("sender is not a member of this chat")

	// ErrConflict surfaces only when a chat-creation race cannot be resolved
	// to a winner; the directory retries internally first.
	ErrConflict = errors.New("conflicting concurrent update")
)

// IsValidation reports whether err is a missing/empty required field error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrPhoneRequired) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrContentRequired) ||
		errors.Is(err, ErrChatRequired) ||
		errors.Is(err, ErrRecipientRequired) ||
		errors.Is(err, ErrSelfChat)
}
