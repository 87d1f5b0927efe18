package store

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dukerupert/smartfood/internal/model"
)

// ErrEmailTaken is returned by Create when another account owns the email.
var ErrEmailTaken = errors.New("email already registered")

// UserStore holds shopping-list accounts. Emails are stored as given and
// compared without case.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userSelect = `SELECT id, email, name, password_hash, created_at, updated_at FROM users`

func (s *UserStore) scanOne(row *sql.Row, op string) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func (s *UserStore) Create(email, name, passwordHash string) (*model.User, error) {
	if u, err := s.GetByEmail(email); err != nil {
		return nil, err
	} else if u != nil {
		return nil, ErrEmailTaken
	}

	result, err := s.db.Exec(`INSERT INTO users (email, name, password_hash) VALUES (?, ?, ?)`, email, name, passwordHash)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	return s.scanOne(s.db.QueryRow(userSelect+` WHERE id = ?`, id), "get user")
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	return s.scanOne(s.db.QueryRow(userSelect+` WHERE email = ? COLLATE NOCASE`, email), "get user by email")
}
