package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	store  domain.Storage
	logger *zerolog.Logger
}

func NewUserService(store domain.Storage, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) Create(ctx context.Context, name, email string) (models.UserDTO, error) {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return models.UserDTO{}, models.Conflict("email %s is already in use", email)
	} else if !models.IsKind(err, models.KindNotFound) {
		return models.UserDTO{}, err
	}

	user := &models.User{Name: name, Email: email}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return models.UserDTO{}, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return models.NewUserDTO(*user), nil
}

func (s *UserService) Get(ctx context.Context, id int64) (models.UserDTO, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return models.UserDTO{}, err
	}
	return models.NewUserDTO(*user), nil
}

func (s *UserService) List(ctx context.Context) ([]models.UserDTO, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]models.UserDTO, 0, len(users))
	for _, user := range users {
		dtos = append(dtos, models.NewUserDTO(user))
	}
	return dtos, nil
}

// Update merges the provided fields into the stored user. Empty name and
// email mean "leave unchanged".
func (s *UserService) Update(ctx context.Context, id int64, name, email string) (models.UserDTO, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return models.UserDTO{}, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		taken, err := s.store.UserEmailTaken(ctx, email, id)
		if err != nil {
			return models.UserDTO{}, err
		}
		if taken {
			return models.UserDTO{}, models.Conflict("email %s is already in use", email)
		}
		user.Email = email
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return models.UserDTO{}, err
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return models.NewUserDTO(*user), nil
}

// Delete removes the user. Deleting an unknown id is not an error.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
