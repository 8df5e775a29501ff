package service

import (
	"context"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
)

type UserService struct {
	repo *repository.UserRepo
}

func NewUserService(repo *repository.UserRepo) *UserService {
	return &UserService{repo: repo}
}

func formatUser(u *model.User) *model.UserResponse {
	genres := u.FavoriteGenres
	if genres == nil {
		genres = []string{}
	}
	return &model.UserResponse{
		UserID:         u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Role:           u.Role,
		FavoriteGenres: genres,
		ReviewCount:    len(u.ReviewIDs),
	}
}

// Lookup returns the profile response for a given user id.
func (s *UserService) Lookup(ctx context.Context, userID string) (*model.UserResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return formatUser(u), nil
}

// UpdateGenres replaces the user's favorite-genre list. Duplicates are
// stored as sent; the list is treated with set semantics downstream.
func (s *UserService) UpdateGenres(ctx context.Context, userID string, genres []string) (*model.UserResponse, error) {
	if genres == nil {
		genres = []string{}
	}
	u, err := s.repo.UpdateFavoriteGenres(ctx, userID, genres)
	if err != nil {
		return nil, err
	}
	return formatUser(u), nil
}

// GetStats returns aggregate catalog statistics.
func (s *UserService) GetStats(ctx context.Context) (*model.StatsResponse, error) {
	return s.repo.GetStats(ctx)
}
