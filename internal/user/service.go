package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/medislot/appointment-backend/internal/notification"
	"github.com/medislot/appointment-backend/internal/verification"
)

// PhoneChecker reports whether a phone number is already taken elsewhere.
type PhoneChecker interface {
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

// Service defines business logic related to patient accounts.
type Service interface {
	// SendCode issues a login code for phone and texts it.
	SendCode(ctx context.Context, phone string) error
	// VerifyCode consumes the code and returns the user, creating it on first login.
	VerifyCode(ctx context.Context, phone, code string) (u *User, isNew bool, err error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error)
}

type service struct {
	repo    Repository
	doctors PhoneChecker
	codes   *verification.Codes
	sms     notification.SMSSender
}

// NewService creates a new user Service.
func NewService(repo Repository, doctors PhoneChecker, codes *verification.Codes, sms notification.SMSSender) Service {
	return &service{
		repo:    repo,
		doctors: doctors,
		codes:   codes,
		sms:     sms,
	}
}

func (s *service) SendCode(ctx context.Context, phone string) error {
	taken, err := s.doctors.PhoneExists(ctx, phone)
	if err != nil {
		return err
	}
	if taken {
		return ErrPhoneUsedByDoctor
	}

	code, err := s.codes.Issue(ctx, verification.KindUser, phone)
	if err != nil {
		return err
	}

	if err := s.sms.SendVerificationCode(ctx, phone, code); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

func (s *service) VerifyCode(ctx context.Context, phone, code string) (*User, bool, error) {
	if err := s.codes.Verify(ctx, verification.KindUser, phone, code); err != nil {
		return nil, false, err
	}

	u, err := s.repo.GetByPhone(ctx, phone)
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	u = &User{Phone: phone, Verified: true}
	if err := s.repo.Create(ctx, u); err != nil {
		// Lost a race with a concurrent first login for the same phone.
		if errors.Is(err, ErrPhoneAlreadyUsed) {
			existing, getErr := s.repo.GetByPhone(ctx, phone)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	return u, true, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	if upd.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.repo.UpdateProfile(ctx, id, upd)
}
