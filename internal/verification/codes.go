package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/medislot/appointment-backend/internal/pkg/apperror"
)

var (
	ErrCodeNotFound = apperror.New(http.StatusBadRequest, "Verification code expired or not found. Please retry sending verification code")
	ErrCodeMismatch = apperror.New(http.StatusBadRequest, "Invalid verification code")
)

// Kind namespaces codes so a phone number used by a user and a doctor never collides.
type Kind string

const (
	KindUser     Kind = "user"
	KindDoctor   Kind = "doctor"
	KindProvider Kind = "hp"
)

const codeLength = 6

// Codes issues and checks one-time verification codes.
type Codes struct {
	store    Store
	ttl      time.Duration
	bypass   string
	generate func() (string, error)
}

// NewCodes creates a code issuer. A non-empty bypass is accepted by Verify for
// any identifier; it is meant for local development only.
func NewCodes(store Store, ttl time.Duration, bypass string) *Codes {
	return &Codes{
		store:    store,
		ttl:      ttl,
		bypass:   bypass,
		generate: generateCode,
	}
}

func key(kind Kind, id string) string {
	return fmt.Sprintf("verification:%s:%s", kind, id)
}

// Issue creates a fresh code for id, replacing any previous one.
func (c *Codes) Issue(ctx context.Context, kind Kind, id string) (string, error) {
	code, err := c.generate()
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	if err := c.store.Put(ctx, key(kind, id), code, c.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks code against the stored one and consumes it on success.
func (c *Codes) Verify(ctx context.Context, kind Kind, id, code string) error {
	k := key(kind, id)

	if c.bypass != "" && code == c.bypass {
		return c.store.Delete(ctx, k)
	}

	err := c.store.Consume(ctx, k, code)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrKeyNotFound):
		return ErrCodeNotFound
	case errors.Is(err, ErrValueMismatch):
		return ErrCodeMismatch
	default:
		return err
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeLength, n.Int64()), nil
}
