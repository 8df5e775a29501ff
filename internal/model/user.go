package model

import "time"

// Roles recognized by the auth guard.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account with its taste profile.
type User struct {
	ID             string    `json:"userId"`
	Username       string    `json:"username"`
	PasswordHash   string    `json:"-"`
	Name           string    `json:"name"`
	Email          string    `json:"-"`
	DOB            time.Time `json:"-"`
	Gender         string    `json:"gender,omitempty"`
	State          string    `json:"state,omitempty"`
	Role           string    `json:"role"`
	FavoriteGenres []string  `json:"favoriteGenres"`
	ReviewIDs      []string  `json:"reviews"`
	RefreshToken   string    `json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// SignupRequest is the API request body for account creation.
type SignupRequest struct {
	Username       string   `json:"username"`
	Password       string   `json:"password"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	DOB            string   `json:"dob"`
	Gender         string   `json:"gender"`
	State          string   `json:"state"`
	FavoriteGenres []string `json:"favoriteGenres"`
}

// LoginRequest is the API request body for credential login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Exp          int64  `json:"exp"`
}

// UserResponse is the API response for profile lookups.
type UserResponse struct {
	UserID         string   `json:"userId"`
	Username       string   `json:"username"`
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	FavoriteGenres []string `json:"favoriteGenres"`
	ReviewCount    int      `json:"reviewCount"`
}

// UpdateGenresRequest is the API request body for replacing a user's
// favorite-genre list.
type UpdateGenresRequest struct {
	FavoriteGenres []string `json:"favoriteGenres"`
}

// StatsResponse is the API response for global catalog statistics.
type StatsResponse struct {
	TotalMovies  int            `json:"totalMovies"`
	TotalUsers   int            `json:"totalUsers"`
	TotalReviews int            `json:"totalReviews"`
	TopGenres    map[string]int `json:"topGenres"`
}
