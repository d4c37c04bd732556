package auth

import (
	"fmt"

	"github.com/bookshelfapp/bookshelf/internal/domain"
)

// credential pairs a login with its profile.
type credential struct {
	password     string // hashed by hashCredentials
	passwordHash string
	user         domain.User
}

// defaultCredentials is the fixed account list with hashed passwords.
func defaultCredentials() ([]credential, error) {
	return hashCredentials([]credential{
		{
			password: "admin",
			user: domain.User{
				ID:          1,
				Username:    "admin",
				DisplayName: "Администратор",
				Role:        domain.RoleAdmin,
				AvatarURL:   "https://images.pexels.com/photos/2269872/pexels-photo-2269872.jpeg",
				Age:         30,
			},
		},
		{
			password: "password",
			user: domain.User{
				ID:          2,
				Username:    "user1",
				DisplayName: "Иван Петров",
				Role:        domain.RoleUser,
				AvatarURL:   "https://images.pexels.com/photos/2379005/pexels-photo-2379005.jpeg",
				Age:         25,
			},
		},
		{
			password: "password",
			user: domain.User{
				ID:          3,
				Username:    "user2",
				DisplayName: "Анна Сидорова",
				Role:        domain.RoleUser,
				AvatarURL:   "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg",
				Age:         28,
			},
		},
	})
}

func hashCredentials(creds []credential) ([]credential, error) {
	for i := range creds {
		hash, err := HashPassword(creds[i].password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", creds[i].user.Username, err)
		}
		creds[i].passwordHash = hash
		creds[i].password = ""
	}
	return creds, nil
}
