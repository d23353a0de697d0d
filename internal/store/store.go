package store

import (
	"context"
	"errors"

	"whatsinbox-backend/internal/models"
)

// ErrUnavailable is returned when the database connection cannot be
// established or re-established. It is fatal for the current operation;
// callers surface it as a server error and never retry automatically.
var ErrUnavailable = errors.New("message store unavailable")

// ConversationAll is the wildcard selector for ListMessages: it returns the
// union of all conversations.
const ConversationAll = "All"

// AppendMessageParams contains parameters for appending one message row.
type AppendMessageParams struct {
	Phone     string
	Body      string
	Direction models.Direction
	Type      models.MessageType
	MediaLink string
	Caption   string
}

// Store defines the interface for conversation-log persistence. The message
// log is append-only: no operation edits or deletes existing rows.
type Store interface {
	// EnsureSchema creates the contacts and messages tables if they do not
	// exist. Safe to call on every process start.
	EnsureSchema(ctx context.Context) error

	// UpsertContact creates the contact or overwrites its name. Idempotent;
	// last write wins on name.
	UpsertContact(ctx context.Context, phone, name string) error

	// AppendMessage always inserts a new row, even if an identical row
	// exists, and returns the new row id.
	AppendMessage(ctx context.Context, arg AppendMessageParams) (int64, error)

	// ListMessages returns one conversation's rows, or every conversation's
	// when phone is ConversationAll, ordered by timestamp then id.
	ListMessages(ctx context.Context, phone string) ([]models.Message, error)

	// ListContacts returns the phone -> name mapping for all known contacts.
	ListContacts(ctx context.Context) (map[string]string, error)
}
