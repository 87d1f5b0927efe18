package store

import (
	"database/sql"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/dukerupert/smartfood/internal/model"
)

type FamilyMemberStore struct {
	db *sql.DB
}

func NewFamilyMemberStore(db *sql.DB) *FamilyMemberStore {
	return &FamilyMemberStore{db: db}
}

func scanMember(s scanner) (*model.FamilyMember, error) {
	var m model.FamilyMember
	var joinDate string
	err := s.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.AvatarInitials, &joinDate,
		&m.Contributions, &m.LastActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if m.JoinDate, err = parseDate(joinDate); err != nil {
		return nil, err
	}
	return &m, nil
}

const memberCols = `id, name, email, phone, role, avatar_initials, join_date, contributions, last_active, created_at, updated_at`

// Create inserts a member who joined on joined. Initials are derived from
// the name.
func (s *FamilyMemberStore) Create(d model.FamilyMemberDraft, joined civil.Date) (*model.FamilyMember, error) {
	result, err := s.db.Exec(
		`INSERT INTO family_members (name, email, phone, role, avatar_initials, join_date) VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, d.Email, d.Phone, d.Role, model.Initials(d.Name), joined.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert family member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *FamilyMemberStore) List() ([]model.FamilyMember, error) {
	rows, err := s.db.Query(`SELECT ` + memberCols + ` FROM family_members ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query family members: %w", err)
	}
	defer rows.Close()

	var members []model.FamilyMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *FamilyMemberStore) GetByID(id int64) (*model.FamilyMember, error) {
	m, err := scanMember(s.db.QueryRow(`SELECT `+memberCols+` FROM family_members WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query family member: %w", err)
	}
	return m, nil
}

func (s *FamilyMemberStore) Update(m model.FamilyMember) (*model.FamilyMember, error) {
	_, err := s.db.Exec(
		`UPDATE family_members SET name = ?, email = ?, phone = ?, role = ?, avatar_initials = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		m.Name, m.Email, m.Phone, m.Role, m.AvatarInitials, m.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update family member: %w", err)
	}
	return s.GetByID(m.ID)
}

func (s *FamilyMemberStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM family_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete family member: %w", err)
	}
	return nil
}
