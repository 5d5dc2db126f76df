package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/notification"
	"github.com/medislot/appointment-backend/internal/verification"
)

// RegisterRequest carries a sign-up that was confirmed by an emailed code.
type RegisterRequest struct {
	Name     string
	Email    string
	OTP      string
	Password string
}

type Service interface {
	SendEmailCode(ctx context.Context, email string) error
	Register(ctx context.Context, req RegisterRequest) (*Provider, error)
	Login(ctx context.Context, email, password string) (*Provider, error)
	GetByID(ctx context.Context, id string) (*Provider, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*Provider, error)
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	codes  *verification.Codes
	mailer notification.EmailSender
}

func NewService(repo Repository, hasher auth.PasswordHasher, codes *verification.Codes, mailer notification.EmailSender) Service {
	return &service{
		repo:   repo,
		hasher: hasher,
		codes:  codes,
		mailer: mailer,
	}
}

func (s *service) SendEmailCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}

	code, err := s.codes.Issue(ctx, verification.KindProvider, email)
	if err != nil {
		return err
	}

	if err := s.mailer.SendVerificationEmail(ctx, email, code); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Provider, error) {
	email := normalizeEmail(req.Email)

	if err := s.codes.Verify(ctx, verification.KindProvider, email, req.OTP); err != nil {
		if errors.Is(err, verification.ErrCodeNotFound) || errors.Is(err, verification.ErrCodeMismatch) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p := &Provider{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Provider, error) {
	p, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch healthcare provider by email: %w", err)
	}

	if err := s.hasher.Compare(p.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to check password for provider %s: %w", p.ID, err)
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Provider, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*Provider, error) {
	if upd.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	return s.repo.UpdateProfile(ctx, id, upd)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
