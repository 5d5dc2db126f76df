package user

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medislot/appointment-backend/internal/verification"
)

// mockRepo is an in-memory Repository.
type mockRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: map[string]*User{}}
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) GetByPhone(_ context.Context, phone string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Phone == u.Phone {
			return ErrPhoneAlreadyUsed
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockRepo) UpdateProfile(_ context.Context, id string, upd ProfileUpdate) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		u.Name = upd.Name
	}
	if upd.Email != nil {
		u.Email = upd.Email
	}
	if upd.DateOfBirth != nil {
		u.DateOfBirth = upd.DateOfBirth
	}
	if upd.ProfilePicture != nil {
		u.ProfilePicture = upd.ProfilePicture
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	_, err := m.GetByPhone(ctx, phone)
	return err == nil, nil
}

type phoneSet map[string]bool

func (p phoneSet) PhoneExists(_ context.Context, phone string) (bool, error) {
	return p[phone], nil
}

// captureSMS remembers the last code sent to each phone.
type captureSMS struct {
	mu   sync.Mutex
	sent map[string]string
	err  error
}

func (c *captureSMS) SendVerificationCode(_ context.Context, phone, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.sent == nil {
		c.sent = map[string]string{}
	}
	c.sent[phone] = code
	return nil
}

func newTestService(doctorPhones phoneSet) (Service, *mockRepo, *captureSMS) {
	repo := newMockRepo()
	sms := &captureSMS{}
	codes := verification.NewCodes(verification.NewMemoryStore(), 10*time.Minute, "")
	return NewService(repo, doctorPhones, codes, sms), repo, sms
}

func TestSendCodeRejectsDoctorPhone(t *testing.T) {
	svc, _, sms := newTestService(phoneSet{"+15550000009": true})

	err := svc.SendCode(context.Background(), "+15550000009")
	assert.True(t, errors.Is(err, ErrPhoneUsedByDoctor))
	assert.Empty(t, sms.sent)
}

func TestSendCodeSurfacesDeliveryFailure(t *testing.T) {
	svc, _, sms := newTestService(phoneSet{})
	sms.err = errors.New("gateway down")

	assert.Error(t, svc.SendCode(context.Background(), "+15550000001"))
}

func TestVerifyCodeRegistersThenLogsIn(t *testing.T) {
	ctx := context.Background()
	svc, repo, sms := newTestService(phoneSet{})
	phone := "+15550000001"

	require.NoError(t, svc.SendCode(ctx, phone))
	u, isNew, err := svc.VerifyCode(ctx, phone, sms.sent[phone])
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.True(t, u.Verified)
	assert.Equal(t, phone, u.Phone)

	require.NoError(t, svc.SendCode(ctx, phone))
	again, isNew, err := svc.VerifyCode(ctx, phone, sms.sent[phone])
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, u.ID, again.ID)
	assert.Len(t, repo.users, 1)
}

func TestVerifyCodeWrongCode(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(phoneSet{})

	_, _, err := svc.VerifyCode(ctx, "+15550000001", "123456")
	assert.True(t, errors.Is(err, verification.ErrCodeNotFound))
	assert.Empty(t, repo.users)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(phoneSet{})
	u := &User{Phone: "+15550000001", Verified: true}
	require.NoError(t, repo.Create(ctx, u))

	_, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{})
	assert.True(t, errors.Is(err, ErrNoFieldsToUpdate))

	name := "Asha"
	updated, err := svc.UpdateProfile(ctx, u.ID, ProfileUpdate{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, updated.Name)
	assert.Equal(t, "Asha", *updated.Name)

	_, err = svc.UpdateProfile(ctx, uuid.NewString(), ProfileUpdate{Name: &name})
	assert.True(t, errors.Is(err, ErrNotFound))
}
