package service

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/yourname/exercisetracker/internal"
	"github.com/yourname/exercisetracker/internal/storage"
)

const userIDSize = 9

// NewUserRequest accepts an empty username.
type NewUserRequest struct {
	Username string `json:"username" form:"username"`
}

func ValidateNewUserRequest(req *NewUserRequest) error {
	return validateStruct(req)
}

func CreateUser(ctx context.Context, userRepo storage.UserRepository, req *NewUserRequest) (*internal.User, error) {
	id, err := gonanoid.New(userIDSize)
	if err != nil {
		return nil, fmt.Errorf("service: generate user id: %w", err)
	}
	user := &internal.User{
		Username: req.Username,
		ID:       id,
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func ListUsers(ctx context.Context, userRepo storage.UserRepository) ([]internal.User, error) {
	return userRepo.ListUsers(ctx)
}
