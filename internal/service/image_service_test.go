package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"aurora/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBlobStore struct {
	puts int
	last []byte
}

func (m *memBlobStore) Put(_ context.Context, ext string, data []byte) (string, error) {
	m.puts++
	m.last = data
	return "/media/test" + ext, nil
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageService_IngestStoresWebP(t *testing.T) {
	store := &memBlobStore{}
	svc := NewImageService(store)

	url, err := svc.Ingest(context.Background(), encodeTestPNG(t, 32, 16))
	require.NoError(t, err)
	assert.Equal(t, "/media/test.webp", url)
	assert.Equal(t, 1, store.puts)
	assert.NotEmpty(t, store.last)
}

func TestImageService_IngestRejectsGarbage(t *testing.T) {
	svc := NewImageService(&memBlobStore{})

	_, err := svc.Ingest(context.Background(), []byte("definitely not an image"))
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.Ingest(context.Background(), nil)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestImageService_ResolveDataURL(t *testing.T) {
	store := &memBlobStore{}
	svc := NewImageService(store)

	payload := base64.StdEncoding.EncodeToString(encodeTestPNG(t, 8, 8))
	url, err := svc.Resolve(context.Background(), "data:image/png;base64,"+payload)
	require.NoError(t, err)
	assert.Equal(t, "/media/test.webp", url)
}

func TestImageService_ResolvePassthroughAndEmpty(t *testing.T) {
	store := &memBlobStore{}
	svc := NewImageService(store)

	url, err := svc.Resolve(context.Background(), "/media/existing.webp")
	require.NoError(t, err)
	assert.Equal(t, "/media/existing.webp", url)
	assert.Zero(t, store.puts)

	url, err = svc.Resolve(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestImageService_ResolveMalformedDataURL(t *testing.T) {
	svc := NewImageService(&memBlobStore{})

	_, err := svc.Resolve(context.Background(), "data:image/png;base64")
	assertAppErrorCode(t, err, models.CodeValidation)

	_, err = svc.Resolve(context.Background(), "data:image/png;base64,!!!not-base64!!!")
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestResizeToFit(t *testing.T) {
	t.Parallel()

	small := image.NewRGBA(image.Rect(0, 0, 100, 50))
	out := resizeToFit(small, 2048, 2048)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())

	wide := image.NewRGBA(image.Rect(0, 0, 4096, 1024))
	out = resizeToFit(wide, 2048, 2048)
	assert.Equal(t, 2048, out.Bounds().Dx())
	assert.Equal(t, 512, out.Bounds().Dy())
}
