package postgres

import (
	"context"
	"errors"
	"fmt"
	"log"

	"whatsinbox-backend/internal/models"
	"whatsinbox-backend/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// PostgresStore persists contacts and messages in PostgreSQL through a
// pgxpool. The pool health-checks connections on acquisition, so callers
// never see a stale-connection error if a working connection can be
// re-established.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS contacts (
	id SERIAL PRIMARY KEY,
	phone TEXT UNIQUE,
	name TEXT
);
CREATE TABLE IF NOT EXISTS messages (
	id SERIAL PRIMARY KEY,
	phone TEXT,
	message TEXT,
	direction TEXT,
	timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	message_type TEXT,
	media_link TEXT,
	caption TEXT
);`

// EnsureSchema creates the contacts and messages tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return s.wrapErr("ensure schema", err)
	}
	log.Println("[PostgresStore] Schema ensured (contacts, messages).")
	return nil
}

// UpsertContact creates the contact if absent, else overwrites its name.
func (s *PostgresStore) UpsertContact(ctx context.Context, phone, name string) error {
	query := `
		INSERT INTO contacts (phone, name)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name`

	if _, err := s.db.Exec(ctx, query, phone, name); err != nil {
		log.Printf("ERROR [PostgresStore] UpsertContact: failed for phone %s: %v", phone, err)
		return s.wrapErr("upsert contact", err)
	}
	return nil
}

// AppendMessage inserts a new message row and returns its id. The timestamp
// is assigned server-side at insert time.
func (s *PostgresStore) AppendMessage(ctx context.Context, arg store.AppendMessageParams) (int64, error) {
	query := `
		INSERT INTO messages (phone, message, direction, timestamp, message_type, media_link, caption)
		VALUES ($1, $2, $3, NOW(), $4, $5, $6)
		RETURNING id`

	var id int64
	err := s.db.QueryRow(ctx, query,
		arg.Phone,
		arg.Body,
		string(arg.Direction),
		string(arg.Type),
		arg.MediaLink,
		arg.Caption,
	).Scan(&id)
	if err != nil {
		log.Printf("ERROR [PostgresStore] AppendMessage: failed for phone %s: %v", arg.Phone, err)
		return 0, s.wrapErr("append message", err)
	}
	return id, nil
}

// ListMessages returns one conversation's rows in timestamp order, or every
// row across conversations when phone is store.ConversationAll.
func (s *PostgresStore) ListMessages(ctx context.Context, phone string) ([]models.Message, error) {
	query := `
		SELECT id, phone, COALESCE(message, ''), direction, timestamp,
		       COALESCE(message_type, 'text'), COALESCE(media_link, ''), COALESCE(caption, '')
		FROM messages`
	args := []any{}
	if phone != store.ConversationAll {
		query += ` WHERE phone = $1`
		args = append(args, phone)
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListMessages: query failed for %q: %v", phone, err)
		return nil, s.wrapErr("list messages", err)
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Phone, &m.Body, &m.Direction, &m.Timestamp, &m.Type, &m.MediaLink, &m.Caption); err != nil {
			log.Printf("ERROR [PostgresStore] ListMessages: scan failed: %v", err)
			return nil, fmt.Errorf("scanning message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapErr("list messages", err)
	}
	return messages, nil
}

// ListContacts returns the phone -> name mapping for all contacts.
func (s *PostgresStore) ListContacts(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `SELECT phone, COALESCE(name, '') FROM contacts`)
	if err != nil {
		log.Printf("ERROR [PostgresStore] ListContacts: query failed: %v", err)
		return nil, s.wrapErr("list contacts", err)
	}
	defer rows.Close()

	contacts := map[string]string{}
	for rows.Next() {
		var phone, name string
		if err := rows.Scan(&phone, &name); err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts[phone] = name
	}
	if err := rows.Err(); err != nil {
		return nil, s.wrapErr("list contacts", err)
	}
	return contacts, nil
}

// wrapErr classifies a pgx error. Server-side statement errors keep their
// original chain; anything else (dial failure, pool checkout, dead
// connection) is a connectivity failure and carries store.ErrUnavailable.
func (s *PostgresStore) wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
}
