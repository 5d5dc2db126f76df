package verification

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "k", "v", time.Minute))
	assert.True(t, errors.Is(s.Consume(ctx, "k", "x"), ErrValueMismatch))

	now = now.Add(time.Minute)
	assert.True(t, errors.Is(s.Consume(ctx, "k", "v"), ErrKeyNotFound))

	require.NoError(t, s.Delete(ctx, "missing"))
}

func TestCodesIssueAndVerify(t *testing.T) {
	ctx := context.Background()
	codes := NewCodes(NewMemoryStore(), 10*time.Minute, "")

	code, err := codes.Issue(ctx, KindUser, "+15550000001")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	// A code for the same phone under a different kind does not exist.
	assert.True(t, errors.Is(codes.Verify(ctx, KindDoctor, "+15550000001", code), ErrCodeNotFound))

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	assert.True(t, errors.Is(codes.Verify(ctx, KindUser, "+15550000001", wrong), ErrCodeMismatch))

	require.NoError(t, codes.Verify(ctx, KindUser, "+15550000001", code))

	// Codes are single use.
	assert.True(t, errors.Is(codes.Verify(ctx, KindUser, "+15550000001", code), ErrCodeNotFound))
}

func TestMemoryStoreConsumeOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, "k", "v", time.Minute))

	assert.True(t, errors.Is(s.Consume(ctx, "k", "wrong"), ErrValueMismatch))
	require.NoError(t, s.Consume(ctx, "k", "v"))
	assert.True(t, errors.Is(s.Consume(ctx, "k", "v"), ErrKeyNotFound))
}

func TestCodesConcurrentVerifySucceedsOnce(t *testing.T) {
	ctx := context.Background()
	codes := NewCodes(NewMemoryStore(), time.Minute, "")
	code, err := codes.Issue(ctx, KindUser, "+15550000001")
	require.NoError(t, err)

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if codes.Verify(ctx, KindUser, "+15550000001", code) == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
}

func TestCodesIssueReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	codes := NewCodes(NewMemoryStore(), time.Minute, "")
	seq := []string{"123456", "654321"}
	codes.generate = func() (string, error) {
		c := seq[0]
		seq = seq[1:]
		return c, nil
	}

	_, err := codes.Issue(ctx, KindProvider, "a@b.c")
	require.NoError(t, err)
	_, err = codes.Issue(ctx, KindProvider, "a@b.c")
	require.NoError(t, err)

	assert.True(t, errors.Is(codes.Verify(ctx, KindProvider, "a@b.c", "123456"), ErrCodeMismatch))
	assert.NoError(t, codes.Verify(ctx, KindProvider, "a@b.c", "654321"))
}

func TestCodesBypass(t *testing.T) {
	ctx := context.Background()

	withBypass := NewCodes(NewMemoryStore(), time.Minute, "999999")
	assert.NoError(t, withBypass.Verify(ctx, KindUser, "+15550000002", "999999"))

	without := NewCodes(NewMemoryStore(), time.Minute, "")
	assert.True(t, errors.Is(without.Verify(ctx, KindUser, "+15550000002", "999999"), ErrCodeNotFound))
}

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
