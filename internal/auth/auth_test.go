package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	cases := []Principal{
		UserPrincipal{ID: "u-1", Phone: "+15550000001"},
		DoctorPrincipal{ID: "d-1", Phone: "+15550000002"},
		ProviderPrincipal{ID: "hp-1", Email: "clinic@example.com"},
	}
	for _, p := range cases {
		token, err := m.Generate(p)
		require.NoError(t, err)

		got, err := m.ParseAndValidate(token)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestParseRejectsUnknownUserType(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	claims := &Claims{
		ID:       "x",
		UserType: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   "x",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.ParseAndValidate(token)
	assert.ErrorContains(t, err, "unknown user type")
}

func TestParseRejectsForeignIssuerAndSubject(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	sign := func(c *Claims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		return token
	}
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	_, err := m.ParseAndValidate(sign(&Claims{ID: "u", UserType: UserTypeUser,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else", Subject: "u", ExpiresAt: exp}}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseAndValidate(sign(&Claims{ID: "u", UserType: UserTypeUser,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: "v", ExpiresAt: exp}}))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseAndValidate(sign(&Claims{ID: "u", UserType: UserTypeUser,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, Subject: "u"}}))
	assert.ErrorIs(t, err, ErrInvalidToken, "tokens without expiry are rejected")
}

func TestParseRejectsWrongSecretAndExpired(t *testing.T) {
	token, err := NewJWTManager("other", time.Hour).Generate(UserPrincipal{ID: "u"})
	require.NoError(t, err)
	_, err = NewJWTManager("test-secret", time.Hour).ParseAndValidate(token)
	assert.Error(t, err)

	expired, err := NewJWTManager("test-secret", -time.Minute).Generate(UserPrincipal{ID: "u"})
	require.NoError(t, err)
	_, err = NewJWTManager("test-secret", time.Hour).ParseAndValidate(expired)
	assert.Error(t, err)
}

func newTestRouter(m *JWTManager, types ...UserType) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(m), RequireUserType(types...), func(c *gin.Context) {
		p, _ := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"id": p.Subject(), "type": p.Type()})
	})
	return r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	r := newTestRouter(m, UserTypeProvider)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer not-a-jwt").Code)

	userToken, _ := m.Generate(UserPrincipal{ID: "u-1", Phone: "+1"})
	w := doGet(r, "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Access denied. Required user type: hp", body["message"])
	assert.Equal(t, "error", body["status"])

	hpToken, _ := m.Generate(ProviderPrincipal{ID: "hp-1", Email: "a@b.c"})
	w = doGet(r, "Bearer "+hpToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"hp-1"`)
}

func TestContextGetters(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetPrincipal(c)
	assert.False(t, ok)

	SetPrincipal(c, DoctorPrincipal{ID: "d-1"})
	d, ok := GetDoctor(c)
	assert.True(t, ok)
	assert.Equal(t, "d-1", d.ID)

	_, ok = GetUser(c)
	assert.False(t, ok)
	_, ok = GetProvider(c)
	assert.False(t, ok)
}

func TestBcryptPasswordHasher(t *testing.T) {
	h := NewBcryptPasswordHasherWithCost(4)
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.NoError(t, h.Compare(hash, "correct horse"))
	assert.ErrorIs(t, h.Compare(hash, "battery staple"), ErrPasswordMismatch)

	err = h.Compare("not-a-bcrypt-hash", "correct horse")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)

	assert.Equal(t, 10, NewBcryptPasswordHasherWithCost(99).cost)
}
