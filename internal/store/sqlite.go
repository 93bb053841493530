package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/me/triage/pkg/model"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so received_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const emailColumns = `id, sender, subject, body, received_at, priority, sentiment, status, category, extracted_info, ai_response`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Email CRUD ---

func (s *SQLiteStore) CreateEmail(ctx context.Context, e *model.Email) error {
	s.logger.Debug("sql", "op", "insert", "table", "emails", "id", e.ID)

	args, err := emailArgs(e)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO emails (`+emailColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	return err
}

// UpsertEmail inserts e or replaces the stored row with the same id.
func (s *SQLiteStore) UpsertEmail(ctx context.Context, e *model.Email) error {
	s.logger.Debug("sql", "op", "upsert", "table", "emails", "id", e.ID)

	args, err := emailArgs(e)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO emails (`+emailColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			sender=excluded.sender, subject=excluded.subject, body=excluded.body,
			received_at=excluded.received_at, priority=excluded.priority,
			sentiment=excluded.sentiment, status=excluded.status, category=excluded.category,
			extracted_info=excluded.extracted_info, ai_response=excluded.ai_response`,
		args...,
	)
	return err
}

func (s *SQLiteStore) GetEmail(ctx context.Context, id string) (*model.Email, error) {
	s.logger.Debug("sql", "op", "select", "table", "emails", "id", id)

	row := s.db.QueryRowContext(ctx, `SELECT `+emailColumns+` FROM emails WHERE id = ?`, id)
	e, err := scanEmail(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListEmails returns one page of emails matching f, newest first, and the
// total number of matches.
func (s *SQLiteStore) ListEmails(ctx context.Context, f model.EmailFilter) ([]*model.Email, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "emails", "limit", f.Limit, "offset", f.Offset)
	f.Clamp()

	var whereClauses []string
	var countArgs []any

	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		whereClauses = append(whereClauses, `(LOWER(subject) LIKE ? ESCAPE '\' OR LOWER(sender) LIKE ? ESCAPE '\')`)
		countArgs = append(countArgs, pattern, pattern)
	}
	if f.Priority != "" {
		whereClauses = append(whereClauses, "priority = ?")
		countArgs = append(countArgs, string(f.Priority))
	}
	if f.Sentiment != "" {
		whereClauses = append(whereClauses, "sentiment = ?")
		countArgs = append(countArgs, string(f.Sentiment))
	}
	if f.Status != "" {
		whereClauses = append(whereClauses, "status = ?")
		countArgs = append(countArgs, string(f.Status))
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM emails`+whereSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + emailColumns + ` FROM emails` + whereSQL +
		` ORDER BY received_at DESC, id LIMIT ? OFFSET ?`
	listArgs := append(countArgs, f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	emails, err := scanEmails(rows)
	if err != nil {
		return nil, 0, err
	}
	return emails, total, nil
}

// --- Queue feed ---

// ListQueueable returns every email whose status enters the processing
// queue, in catalog (id) order.
func (s *SQLiteStore) ListQueueable(ctx context.Context) ([]*model.Email, error) {
	s.logger.Debug("sql", "op", "list_queueable", "table", "emails")

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+emailColumns+` FROM emails WHERE status IN (?, ?) ORDER BY rowid`,
		string(model.EmailStatusPending), string(model.EmailStatusProcessing),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmails(rows)
}

func (s *SQLiteStore) CountEmails(ctx context.Context) (model.EmailCounts, error) {
	s.logger.Debug("sql", "op", "count", "table", "emails")

	var c model.EmailCounts
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(priority = ?), 0),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(status = ?), 0),
			COALESCE(SUM(status = ?), 0)
		 FROM emails`,
		string(model.PriorityUrgent),
		string(model.EmailStatusPending), string(model.EmailStatusProcessing), string(model.EmailStatusResolved),
	).Scan(&c.Total, &c.Urgent, &c.Pending, &c.Processing, &c.Resolved)
	return c, err
}

// --- helpers ---

type scanner interface {
	Scan(dest ...any) error
}

func emailArgs(e *model.Email) ([]any, error) {
	infoJSON, err := json.Marshal(e.ExtractedInfo)
	if err != nil {
		return nil, fmt.Errorf("marshal extracted info: %w", err)
	}
	return []any{
		e.ID, e.Sender, e.Subject, e.Body, e.ReceivedAt.UTC().Format(timeLayout),
		string(e.Priority), string(e.Sentiment), string(e.Status), e.Category,
		string(infoJSON), e.AIResponse,
	}, nil
}

func scanEmail(row scanner) (*model.Email, error) {
	var e model.Email
	var receivedAt, priority, sentiment, status, infoJSON string

	if err := row.Scan(&e.ID, &e.Sender, &e.Subject, &e.Body, &receivedAt,
		&priority, &sentiment, &status, &e.Category, &infoJSON, &e.AIResponse); err != nil {
		return nil, err
	}

	e.Priority = model.Priority(priority)
	e.Sentiment = model.Sentiment(sentiment)
	e.Status = model.EmailStatus(status)
	if err := json.Unmarshal([]byte(infoJSON), &e.ExtractedInfo); err != nil {
		return nil, fmt.Errorf("unmarshal extracted info: %w", err)
	}
	t, err := time.Parse(timeLayout, receivedAt)
	if err != nil {
		return nil, fmt.Errorf("parse received_at %q: %w", receivedAt, err)
	}
	e.ReceivedAt = t
	return &e, nil
}

func scanEmails(rows *sql.Rows) ([]*model.Email, error) {
	var emails []*model.Email
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
