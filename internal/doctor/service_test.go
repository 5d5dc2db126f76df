package doctor

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medislot/appointment-backend/internal/verification"
)

type mockRepo struct {
	doctors      map[string]*Doctor
	withSchedule map[string]bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{doctors: map[string]*Doctor{}, withSchedule: map[string]bool{}}
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) GetOwned(_ context.Context, id, hpID string) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok || d.HPID == nil || *d.HPID != hpID {
		return nil, ErrNotOwned
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) GetByPhone(_ context.Context, phone string) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.Phone != nil && *d.Phone == phone {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) List(_ context.Context, filter Filter) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		if filter.HPID != "" && (d.HPID == nil || *d.HPID != filter.HPID) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, len(out), nil
}

func (m *mockRepo) Create(ctx context.Context, d *Doctor) error {
	if d.Phone != nil {
		if _, err := m.GetByPhone(ctx, *d.Phone); err == nil {
			return ErrPhoneAlreadyUsed
		}
	}
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now()
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) Update(_ context.Context, id, hpID string, f Fields) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	if hpID != "" && (d.HPID == nil || *d.HPID != hpID) {
		return nil, ErrNotOwned
	}
	if f.Name != nil {
		d.Name = *f.Name
	}
	if f.Specialty != nil {
		d.Specialty = f.Specialty
	}
	if f.Phone != nil {
		d.Phone = f.Phone
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) Delete(_ context.Context, id, hpID string) error {
	d, ok := m.doctors[id]
	if !ok || d.HPID == nil || *d.HPID != hpID {
		return ErrNotOwned
	}
	if m.withSchedule[id] {
		return ErrHasSchedules
	}
	delete(m.doctors, id)
	return nil
}

func (m *mockRepo) PhoneExists(ctx context.Context, phone string) (bool, error) {
	_, err := m.GetByPhone(ctx, phone)
	return err == nil, nil
}

type phoneSet map[string]bool

func (p phoneSet) PhoneExists(_ context.Context, phone string) (bool, error) {
	return p[phone], nil
}

type captureSMS struct{ sent map[string]string }

func (c *captureSMS) SendVerificationCode(_ context.Context, phone, code string) error {
	if c.sent == nil {
		c.sent = map[string]string{}
	}
	c.sent[phone] = code
	return nil
}

func ptr[T any](v T) *T { return &v }

func newTestService(userPhones phoneSet) (Service, *mockRepo, *captureSMS) {
	repo := newMockRepo()
	sms := &captureSMS{}
	codes := verification.NewCodes(verification.NewMemoryStore(), 10*time.Minute, "")
	return NewService(repo, userPhones, codes, sms), repo, sms
}

func TestProviderScopedCRUD(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(phoneSet{})
	hpA, hpB := uuid.NewString(), uuid.NewString()

	d, err := svc.CreateForProvider(ctx, hpA, Fields{Name: ptr("Dr. Rao"), Specialty: ptr("Cardiology")})
	require.NoError(t, err)
	require.NotNil(t, d.HPID)
	assert.Equal(t, hpA, *d.HPID)

	_, err = svc.GetForProvider(ctx, hpB, d.ID)
	assert.True(t, errors.Is(err, ErrNotOwned))

	_, err = svc.UpdateForProvider(ctx, hpB, d.ID, Fields{Name: ptr("Mallory")})
	assert.True(t, errors.Is(err, ErrNotOwned))

	_, err = svc.UpdateForProvider(ctx, hpA, d.ID, Fields{})
	assert.True(t, errors.Is(err, ErrNoFieldsToUpdate))

	updated, err := svc.UpdateForProvider(ctx, hpA, d.ID, Fields{Specialty: ptr("Neurology")})
	require.NoError(t, err)
	assert.Equal(t, "Neurology", *updated.Specialty)

	list, total, err := svc.ListForProvider(ctx, hpB, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)

	repo.withSchedule[d.ID] = true
	assert.True(t, errors.Is(svc.DeleteForProvider(ctx, hpA, d.ID), ErrHasSchedules))

	repo.withSchedule[d.ID] = false
	assert.True(t, errors.Is(svc.DeleteForProvider(ctx, hpB, d.ID), ErrNotOwned))
	require.NoError(t, svc.DeleteForProvider(ctx, hpA, d.ID))
}

func TestCreateRequiresName(t *testing.T) {
	svc, _, _ := newTestService(phoneSet{})
	_, err := svc.CreateUnaffiliated(context.Background(), Fields{Phone: ptr("+15550000001")})
	assert.True(t, errors.Is(err, ErrNameRequired))
}

func TestPhoneCannotBelongToUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(phoneSet{"+15550000001": true})

	_, err := svc.CreateForProvider(ctx, uuid.NewString(), Fields{Name: ptr("Dr. Rao"), Phone: ptr("+15550000001")})
	assert.True(t, errors.Is(err, ErrPhoneUsedByUser))
}

func TestDoctorLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, sms := newTestService(phoneSet{})

	assert.True(t, errors.Is(svc.SendCode(ctx, "+15550000002"), ErrNotRegistered))

	d, err := svc.CreateUnaffiliated(ctx, Fields{Name: ptr("Dr. Iyer"), Phone: ptr("+15550000002")})
	require.NoError(t, err)
	assert.Nil(t, d.HPID)

	require.NoError(t, svc.SendCode(ctx, "+15550000002"))
	got, err := svc.VerifyCode(ctx, "+15550000002", sms.sent["+15550000002"])
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	profile, err := svc.UpdateProfile(ctx, d.ID, Fields{Name: ptr("Dr. A. Iyer")})
	require.NoError(t, err)
	assert.Equal(t, "Dr. A. Iyer", profile.Name)
}
