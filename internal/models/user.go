package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	PassHash []byte `json:"pass_hash"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type contextKey string

const UserContextKey contextKey = "user"
