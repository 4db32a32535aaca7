package user

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"

	internal "github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List() ([]*User, error) {
	records, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(records))
	for _, record := range records {
		users = append(users, FromDataModel(record))
	}
	return users, nil
}

// UpdateRole changes a user's stored role. Admins cannot demote
// themselves, that would risk locking the last admin out.
func (s *Service) UpdateRole(actor *auth.User, id int64, dto UpdateRoleDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if actor.ID == id {
		return nil, internal.NewValidationError("cannot change your own role", internal.ErrCodeInvalidRole)
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to get user", err)
	}

	record.Role = dto.Role
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to update user role", "error", err, "user_id", id)
		return nil, internal.NewInternalError("failed to update user role", err)
	}

	s.logger.Info("user role updated", "user_id", id, "role", dto.Role, "actor_id", actor.ID)
	return FromDataModel(record), nil
}

// Delete deactivates the account. The row is kept because audit entries
// reference the user id.
func (s *Service) Delete(actor *auth.User, id int64) error {
	if actor.ID == id {
		return internal.NewValidationError("cannot delete your own account", internal.ErrCodeValidationFailed)
	}

	record, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrUserNotFound
		}
		return internal.NewInternalError("failed to get user", err)
	}

	record.IsActive = false
	if err := s.repo.Update(record); err != nil {
		s.logger.Error("failed to deactivate user", "error", err, "user_id", id)
		return internal.NewInternalError("failed to deactivate user", err)
	}

	s.logger.Info("user deactivated", "user_id", id, "actor_id", actor.ID)
	return nil
}
