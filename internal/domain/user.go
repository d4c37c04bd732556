package domain

// Role represents the user's permission level.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleUser is a regular reader.
	RoleUser Role = "user"
)

// User is the identity handed out by the auth provider. It never carries a password.
type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Role        Role   `json:"role"`
	AvatarURL   string `json:"avatar,omitempty"`
	Age         int    `json:"age,omitempty"`
}
