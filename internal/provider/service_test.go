package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/verification"
)

type mockRepo struct {
	byID map[string]*Provider
}

func newMockRepo() *mockRepo {
	return &mockRepo{byID: map[string]*Provider{}}
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Provider, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Provider, error) {
	for _, p := range m.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Create(ctx context.Context, p *Provider) error {
	if _, err := m.GetByEmail(ctx, p.Email); err == nil {
		return ErrEmailAlreadyUsed
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *mockRepo) UpdateProfile(_ context.Context, id string, upd ProfileUpdate) (*Provider, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Address != nil {
		p.Address = upd.Address
	}
	cp := *p
	return &cp, nil
}

type captureMail struct {
	sent map[string]string
}

func (c *captureMail) SendVerificationEmail(_ context.Context, email, code string) error {
	if c.sent == nil {
		c.sent = map[string]string{}
	}
	c.sent[email] = code
	return nil
}

func newTestService() (Service, *mockRepo, *captureMail) {
	repo := newMockRepo()
	mail := &captureMail{}
	codes := verification.NewCodes(verification.NewMemoryStore(), 10*time.Minute, "")
	return NewService(repo, auth.NewBcryptPasswordHasherWithCost(4), codes, mail), repo, mail
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, mail := newTestService()

	require.NoError(t, svc.SendEmailCode(ctx, " Clinic@Example.com "))
	code := mail.sent["clinic@example.com"]
	require.Len(t, code, 6)

	p, err := svc.Register(ctx, RegisterRequest{
		Name: "City Clinic", Email: "clinic@example.com", OTP: code, Password: "s3cret!!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.NotEqual(t, "s3cret!!", p.PasswordHash)

	logged, err := svc.Login(ctx, "CLINIC@example.com", "s3cret!!")
	require.NoError(t, err)
	assert.Equal(t, p.ID, logged.ID)

	_, err = svc.Login(ctx, "clinic@example.com", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret!!")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	// The email is now taken.
	assert.True(t, errors.Is(svc.SendEmailCode(ctx, "clinic@example.com"), ErrEmailAlreadyUsed))
}

func TestRegisterRejectsBadOTP(t *testing.T) {
	ctx := context.Background()
	svc, repo, mail := newTestService()

	_, err := svc.Register(ctx, RegisterRequest{Name: "X", Email: "x@example.com", OTP: "123456", Password: "password"})
	assert.True(t, errors.Is(err, ErrInvalidOTP))

	require.NoError(t, svc.SendEmailCode(ctx, "x@example.com"))
	wrong := "000000"
	if mail.sent["x@example.com"] == wrong {
		wrong = "111111"
	}
	_, err = svc.Register(ctx, RegisterRequest{Name: "X", Email: "x@example.com", OTP: wrong, Password: "password"})
	assert.True(t, errors.Is(err, ErrInvalidOTP))
	assert.Empty(t, repo.byID)
}

func TestUpdateProfileRequiresFields(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateProfile(context.Background(), uuid.NewString(), ProfileUpdate{})
	assert.True(t, errors.Is(err, ErrNoFieldsToUpdate))
}
