package httpapi

import (
	"github.com/krishirakshak/krishirakshak/internal/server/auth"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type locationRequest struct {
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName *string  `json:"location_name"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply   string   `json:"reply"`
	Intents []string `json:"intents"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type authResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

func toUserResponse(id auth.Identity) userResponse {
	return userResponse{ID: id.UserID, Email: id.Email, Name: id.DisplayName}
}
