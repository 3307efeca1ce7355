package http

import (
	"time"

	"github.com/myflix/backend/internal/user/domain"
)

// UserResponse is the identity as returned to clients. It carries no
// password material in any form.
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Favorites []string   `json:"favorite_movies"`
}

func NewUserResponse(user domain.User) UserResponse {
	favorites := user.Favorites
	if favorites == nil {
		favorites = []string{}
	}
	return UserResponse{
		ID:        string(user.ID),
		Username:  user.Username,
		Email:     user.Email,
		Birthday:  user.Birthday,
		Favorites: favorites,
	}
}
