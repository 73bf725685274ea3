package user

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// phonePattern accepts E.164-ish numbers: optional +, 7 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// Service implements user profile operations.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetProfile returns the user's profile.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.GetUser(ctx, userID)
}

// HasPhone reports whether the user has a phone number on file.
func (s *Service) HasPhone(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.HasPhone(), nil
}

// UpdateProfile applies the non-nil fields of req to the user's profile.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.Phone != nil {
		phone := normalizePhone(*req.Phone)
		if phone != "" && !phonePattern.MatchString(phone) {
			return nil, ErrInvalidPhone
		}
		u.Phone = phone
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}

	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", zap.String("user_id", userID.String()))
	return u, nil
}

// normalizePhone strips spaces, dashes and parentheses before validation.
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}
