package models

type Role string

const (
	RoleMember  Role = "member"
	RoleOfficer Role = "officer"
	RoleAdmin   Role = "admin"
)

type Member struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
	ChatID    int64  `gorm:"uniqueIndex;not null" json:"chat_id"`
	Email     string `gorm:"index" json:"email"`
	Username  string `json:"username"`
	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `gorm:"type:varchar(20);default:'member'" json:"role"`
}

func (Member) TableName() string {
	return "members"
}

// IsAdmin reports whether the member can manage officers.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// IsOfficer is true for officers and admins.
func (m *Member) IsOfficer() bool {
	return m.Role == RoleOfficer || m.Role == RoleAdmin
}

func (m *Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}
