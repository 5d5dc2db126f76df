package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/medislot/appointment-backend/internal/notification"
	"github.com/medislot/appointment-backend/internal/verification"
)

// PhoneChecker reports whether a phone number already belongs to a patient.
type PhoneChecker interface {
	PhoneExists(ctx context.Context, phone string) (bool, error)
}

type Service interface {
	// Provider-scoped management.
	ListForProvider(ctx context.Context, hpID string, page, pageSize int) ([]*Doctor, int, error)
	CreateForProvider(ctx context.Context, hpID string, f Fields) (*Doctor, error)
	GetForProvider(ctx context.Context, hpID, id string) (*Doctor, error)
	UpdateForProvider(ctx context.Context, hpID, id string, f Fields) (*Doctor, error)
	DeleteForProvider(ctx context.Context, hpID, id string) error

	// Doctor self-service.
	SendCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) (*Doctor, error)
	GetProfile(ctx context.Context, id string) (*Doctor, error)
	UpdateProfile(ctx context.Context, id string, f Fields) (*Doctor, error)

	// Administration.
	ListAll(ctx context.Context, page, pageSize int) ([]*Doctor, int, error)
	CreateUnaffiliated(ctx context.Context, f Fields) (*Doctor, error)
}

type service struct {
	repo  Repository
	users PhoneChecker
	codes *verification.Codes
	sms   notification.SMSSender
}

func NewService(repo Repository, users PhoneChecker, codes *verification.Codes, sms notification.SMSSender) Service {
	return &service{
		repo:  repo,
		users: users,
		codes: codes,
		sms:   sms,
	}
}

// ensurePhoneFree keeps a number from belonging to both a patient and a doctor.
func (s *service) ensurePhoneFree(ctx context.Context, phone *string) error {
	if phone == nil {
		return nil
	}
	taken, err := s.users.PhoneExists(ctx, *phone)
	if err != nil {
		return err
	}
	if taken {
		return ErrPhoneUsedByUser
	}
	return nil
}

func (s *service) create(ctx context.Context, hpID *string, f Fields) (*Doctor, error) {
	if f.Name == nil {
		return nil, ErrNameRequired
	}
	if err := s.ensurePhoneFree(ctx, f.Phone); err != nil {
		return nil, err
	}

	d := &Doctor{
		HPID:           hpID,
		Name:           *f.Name,
		Email:          f.Email,
		Phone:          f.Phone,
		About:          f.About,
		Gender:         f.Gender,
		Qualifications: f.Qualifications,
		Specialty:      f.Specialty,
		ProfilePicture: f.ProfilePicture,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) update(ctx context.Context, id, hpID string, f Fields) (*Doctor, error) {
	if f.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	if err := s.ensurePhoneFree(ctx, f.Phone); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, hpID, f)
}

func (s *service) ListForProvider(ctx context.Context, hpID string, page, pageSize int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, Filter{HPID: hpID, Page: page, PageSize: pageSize})
}

func (s *service) CreateForProvider(ctx context.Context, hpID string, f Fields) (*Doctor, error) {
	return s.create(ctx, &hpID, f)
}

func (s *service) GetForProvider(ctx context.Context, hpID, id string) (*Doctor, error) {
	return s.repo.GetOwned(ctx, id, hpID)
}

func (s *service) UpdateForProvider(ctx context.Context, hpID, id string, f Fields) (*Doctor, error) {
	return s.update(ctx, id, hpID, f)
}

func (s *service) DeleteForProvider(ctx context.Context, hpID, id string) error {
	return s.repo.Delete(ctx, id, hpID)
}

func (s *service) SendCode(ctx context.Context, phone string) error {
	if _, err := s.repo.GetByPhone(ctx, phone); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotRegistered
		}
		return err
	}
	if err := s.ensurePhoneFree(ctx, &phone); err != nil {
		return err
	}

	code, err := s.codes.Issue(ctx, verification.KindDoctor, phone)
	if err != nil {
		return err
	}
	if err := s.sms.SendVerificationCode(ctx, phone, code); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}
	return nil
}

func (s *service) VerifyCode(ctx context.Context, phone, code string) (*Doctor, error) {
	if err := s.codes.Verify(ctx, verification.KindDoctor, phone, code); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}
	return d, nil
}

func (s *service) GetProfile(ctx context.Context, id string) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, f Fields) (*Doctor, error) {
	return s.update(ctx, id, "", f)
}

func (s *service) ListAll(ctx context.Context, page, pageSize int) ([]*Doctor, int, error) {
	return s.repo.List(ctx, Filter{Page: page, PageSize: pageSize})
}

func (s *service) CreateUnaffiliated(ctx context.Context, f Fields) (*Doctor, error) {
	return s.create(ctx, nil, f)
}
