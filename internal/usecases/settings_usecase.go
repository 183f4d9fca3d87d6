package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"stock-tracker.backend/internal/domain/entities"
	domainerrors "stock-tracker.backend/internal/domain/errors"
	"stock-tracker.backend/internal/domain/repositories"
)

// SettingsUsecase reads and updates profile and notification preferences
type SettingsUsecase struct {
	userRepo repositories.UserRepository
	now      func() time.Time
}

func NewSettingsUsecase(userRepo repositories.UserRepository) *SettingsUsecase {
	return &SettingsUsecase{userRepo: userRepo, now: time.Now}
}

func (u *SettingsUsecase) GetSettings(ctx context.Context, userID uuid.UUID) (*entities.Settings, error) {
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return entities.SettingsFromUser(user), nil
}

// UpdateSettings applies only the fields present in input.
func (u *SettingsUsecase) UpdateSettings(ctx context.Context, userID uuid.UUID, input *entities.UpdateSettingsInput) (*entities.Settings, error) {
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if p := input.Profile; p != nil {
		if p.FullName != nil {
			name := strings.TrimSpace(*p.FullName)
			if len(name) < 2 {
				return nil, domainerrors.Validation("Validation failed", map[string]string{"fullName": "must be at least 2 characters"})
			}
			user.Name = name
		}
		if p.Phone != nil {
			user.Phone = optionalString(*p.Phone)
		}
		if p.Avatar != nil {
			user.Avatar = optionalString(*p.Avatar)
		}
	}
	if n := input.Notifications; n != nil {
		if n.OrderAlerts != nil {
			user.Notifications.OrderAlerts = *n.OrderAlerts
		}
		if n.LowStockWarnings != nil {
			user.Notifications.LowStockWarnings = *n.LowStockWarnings
		}
		if n.WeeklyReports != nil {
			user.Notifications.WeeklyReports = *n.WeeklyReports
		}
	}

	user.UpdatedAt = u.now().UTC()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return entities.SettingsFromUser(user), nil
}

func (u *SettingsUsecase) loadUser(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("User not found")
		}
		return nil, err
	}
	return user, nil
}
