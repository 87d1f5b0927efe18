package model

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/civil"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type FamilyMember struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Role           string     `json:"role"`
	AvatarInitials string     `json:"avatar_initials"`
	JoinDate       civil.Date `json:"join_date"`
	Contributions  int        `json:"contributions"`
	LastActive     time.Time  `json:"last_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (m FamilyMember) EntityID() int64 { return m.ID }

type FamilyMemberDraft struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

func (d FamilyMemberDraft) Validate() error {
	if err := requireText("name", d.Name); err != nil {
		return err
	}
	if err := validEmail(d.Email); err != nil {
		return err
	}
	return validRole(d.Role, true)
}

func (d *FamilyMemberDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Phone = strings.TrimSpace(d.Phone)
	if d.Role == "" {
		d.Role = RoleMember
	}
}

type FamilyMemberPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (p FamilyMemberPatch) Validate() error {
	if err := optionalText("name", p.Name); err != nil {
		return err
	}
	if p.Email != nil {
		if err := validEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Role != nil {
		return validRole(*p.Role, false)
	}
	return nil
}

func (p FamilyMemberPatch) Apply(m *FamilyMember) {
	if p.Name != nil {
		m.Name = strings.TrimSpace(*p.Name)
		m.AvatarInitials = Initials(m.Name)
	}
	if p.Email != nil {
		m.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Phone != nil {
		m.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Role != nil {
		m.Role = *p.Role
	}
}

// Initials returns the upper-cased first letter of every word in name,
// e.g. "Nguyễn Văn An" -> "NVA".
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}

func validEmail(email string) error {
	if err := requireText("email", email); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return fieldErr("email", "is not a valid address")
	}
	return nil
}

func validRole(role string, allowEmpty bool) error {
	if role == "" && allowEmpty {
		return nil
	}
	if role != RoleAdmin && role != RoleMember {
		return fieldErr("role", "must be admin or member")
	}
	return nil
}
