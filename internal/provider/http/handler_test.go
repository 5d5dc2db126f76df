package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medislot/appointment-backend/internal/auth"
	"github.com/medislot/appointment-backend/internal/pkg/testutil"
	"github.com/medislot/appointment-backend/internal/pkg/validation"
	"github.com/medislot/appointment-backend/internal/provider"
)

type stubService struct {
	hp *provider.Provider
}

func (s *stubService) SendEmailCode(context.Context, string) error { return nil }

func (s *stubService) Register(_ context.Context, req provider.RegisterRequest) (*provider.Provider, error) {
	if req.OTP != "123456" {
		return nil, provider.ErrInvalidOTP
	}
	return s.hp, nil
}

func (s *stubService) Login(_ context.Context, _, password string) (*provider.Provider, error) {
	if password != "s3cret!!" {
		return nil, provider.ErrInvalidCredentials
	}
	return s.hp, nil
}

func (s *stubService) GetByID(context.Context, string) (*provider.Provider, error) {
	return s.hp, nil
}

func (s *stubService) UpdateProfile(_ context.Context, _ string, upd provider.ProfileUpdate) (*provider.Provider, error) {
	if upd.IsEmpty() {
		return nil, provider.ErrNoFieldsToUpdate
	}
	return s.hp, nil
}

func setup(t *testing.T) (*gin.Engine, *stubService, *auth.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validation.RegisterGin())

	svc := &stubService{hp: &provider.Provider{
		ID: "22222222-2222-2222-2222-222222222222", Name: "City Clinic", Email: "clinic@example.com",
		PasswordHash: "hash", CreatedAt: time.Now(),
	}}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	r := gin.New()
	hpOnly := []gin.HandlerFunc{auth.AuthRequired(jwtManager), auth.RequireUserType(auth.UserTypeProvider)}
	RegisterRoutes(r.Group("/v1"), NewHandler(svc, jwtManager), hpOnly, func(c *gin.Context) { c.Next() })
	return r, svc, jwtManager
}

func TestRegister(t *testing.T) {
	r, svc, jwtManager := setup(t)

	w := testutil.ExecuteRequest(r, http.MethodPost, "/v1/hp/auth/register", gin.H{
		"name": "City Clinic", "email": "clinic@example.com", "otp": "123456", "password": "s3cret!!",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	body := testutil.DecodeBody(t, w)
	hp := body["hp"].(map[string]any)
	assert.Equal(t, svc.hp.Email, hp["email"])
	assert.NotContains(t, hp, "passwordHash")

	p, err := jwtManager.ParseAndValidate(body["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, auth.ProviderPrincipal{ID: svc.hp.ID, Email: svc.hp.Email}, p)

	w = testutil.ExecuteRequest(r, http.MethodPost, "/v1/hp/auth/register", gin.H{
		"name": "City Clinic", "email": "clinic@example.com", "otp": "999999", "password": "s3cret!!",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired OTP", testutil.DecodeBody(t, w)["message"])
}

func TestLogin(t *testing.T) {
	r, _, _ := setup(t)

	w := testutil.ExecuteRequest(r, http.MethodPost, "/v1/hp/auth/login", gin.H{"email": "clinic@example.com", "password": "wrong-one"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.ExecuteRequest(r, http.MethodPost, "/v1/hp/auth/login", gin.H{"email": "clinic@example.com", "password": "s3cret!!"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileRequiresProvider(t *testing.T) {
	r, svc, jwtManager := setup(t)

	userToken, _ := jwtManager.Generate(auth.UserPrincipal{ID: svc.hp.ID})
	w := testutil.ExecuteRequest(r, http.MethodGet, "/v1/hp/profile", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	hpToken, _ := jwtManager.Generate(auth.ProviderPrincipal{ID: svc.hp.ID, Email: svc.hp.Email})
	w = testutil.ExecuteRequest(r, http.MethodGet, "/v1/hp/profile", nil, hpToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.ExecuteRequest(r, http.MethodPut, "/v1/hp/profile", gin.H{"contactNumber": "abc"}, hpToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
