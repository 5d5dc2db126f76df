package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "media/ab/file.txt", bytes.NewBufferString("hello")))

	rc, err := s.Get(ctx, "media/ab/file.txt")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(body))

	require.NoError(t, s.Delete(ctx, "media/ab/file.txt"))
	require.NoError(t, s.Delete(ctx, "media/ab/file.txt"))

	_, err = s.Get(ctx, "media/ab/file.txt")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"../outside.txt", "a/../../outside.txt", "/etc/passwd", ""} {
		err := s.Save(ctx, p, bytes.NewBufferString("x"))
		assert.True(t, errors.Is(err, ErrInvalidPath), p)
	}
}

func TestThumbnailFitsBoundingBox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 400))
	for x := 0; x < 800; x++ {
		src.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := NewImageProcessor(200, 200).Thumbnail(&buf)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	_, err = NewImageProcessor(200, 200).Thumbnail(bytes.NewBufferString("not an image"))
	assert.Error(t, err)
}
