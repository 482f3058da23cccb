package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aurora/internal/blob"
	"aurora/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	maxImageBytes   = 10 * 1024 * 1024 // 10MB
	masterMaxSize   = 2048
	webpQuality     = 70
	remoteFetchTime = 10 * time.Second
)

// ImageService normalizes user-supplied images (base64 data URLs, remote
// URLs, or raw bytes) into locally stored WebP files.
type ImageService struct {
	store  blob.Store
	client *http.Client
}

func NewImageService(store blob.Store) *ImageService {
	return &ImageService{
		store:  store,
		client: &http.Client{Timeout: remoteFetchTime},
	}
}

// Resolve turns whatever image reference the client sent into a served URL.
// Data URLs and remote URLs are fetched, re-encoded, and stored; URLs that
// already point at our own media path pass through unchanged; empty input
// yields an empty URL.
func (s *ImageService) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	switch {
	case strings.HasPrefix(ref, "data:"):
		data, err := decodeDataURL(ref)
		if err != nil {
			return "", models.NewValidationError(err.Error())
		}
		return s.Ingest(ctx, data)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		data, err := s.fetchRemote(ctx, ref)
		if err != nil {
			return "", err
		}
		return s.Ingest(ctx, data)
	default:
		// Already a local media path.
		return ref, nil
	}
}

// Ingest validates, resizes, and re-encodes raw image bytes as WebP, then
// writes them to the blob store, returning the served URL.
func (s *ImageService) Ingest(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", models.NewValidationError("No image data")
	}
	if len(data) > maxImageBytes {
		return "", models.NewValidationError(fmt.Sprintf("Image too large (max %dMB)", maxImageBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(data)
	if !strings.HasPrefix(detectedType, "image/") {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	master := resizeToFit(decoded, masterMaxSize, masterMaxSize)
	encoded, err := webp.EncodeRGBA(master, webpQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	fileURL, err := s.store.Put(ctx, ".webp", encoded)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return fileURL, nil
}

func (s *ImageService) fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, models.NewValidationError("Invalid image URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, models.NewValidationError("Invalid image URL")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, models.NewUnavailableError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewValidationError(fmt.Sprintf("Image fetch returned status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, models.NewUnavailableError(err)
	}
	if len(data) > maxImageBytes {
		return nil, models.NewValidationError(fmt.Sprintf("Image too large (max %dMB)", maxImageBytes/(1024*1024)))
	}
	return data, nil
}

// decodeDataURL extracts the payload of a "data:image/...;base64,..." URL.
func decodeDataURL(ref string) ([]byte, error) {
	comma := strings.IndexByte(ref, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URL")
	}
	meta := ref[len("data:"):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URL encoding")
	}
	data, err := base64.StdEncoding.DecodeString(ref[comma+1:])
	if err != nil {
		return nil, fmt.Errorf("malformed base64 image data")
	}
	return data, nil
}

// resizeToFit scales the image down so both dimensions fit within the given
// box, preserving aspect ratio. Images already inside the box pass through.
func resizeToFit(src image.Image, maxW, maxH int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if w > maxW || h > maxH {
		scaleW := float64(maxW) / float64(w)
		scaleH := float64(maxH) / float64(h)
		scale := scaleW
		if scaleH < scale {
			scale = scaleH
		}
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}
