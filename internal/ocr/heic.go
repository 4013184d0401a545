package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// fileHash returns the hex SHA256 of the file at path.
func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// convertHEIC converts a HEIC/HEIF photo to PNG so tesseract can read it. With a
// cacheDir the PNG is kept at {cacheDir}/{sha256}.png and reused on later runs, and
// cleanup is nil. Without one the PNG lives in a temp dir removed by cleanup.
func convertHEIC(ctx context.Context, r Runner, logger *slog.Logger, converter, in, cacheDir string) (string, func(), error) {
	var cached string
	if cacheDir != "" {
		sum, err := fileHash(in)
		if err != nil {
			return "", nil, fmt.Errorf("hash %s: %w", in, err)
		}
		cached = filepath.Join(cacheDir, sum+".png")
		if st, err := os.Stat(cached); err == nil && !st.IsDir() {
			logger.Debug("using cached heic->png", "cache", cached)
			return cached, nil, nil
		}
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return "", nil, err
		}
	}

	tmpDir, err := os.MkdirTemp("", "sm-heic-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "photo.png")

	var args []string
	switch converter {
	case "heif-convert", "magick":
		args = []string{in, out}
	case "sips":
		args = []string{"-s", "format", "png", in, "--out", out}
	default:
		cleanup()
		return "", nil, fmt.Errorf("%w: HEIC converter %q, want heif-convert | magick | sips", ErrUnsupportedFormat, converter)
	}
	if _, errb, err := r.Run(ctx, converter, logger, args...); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: %s: %v: %s", ErrConversion, converter, err, truncate(string(errb), 512))
	}
	if _, err := os.Stat(out); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("%w: no output: %v", ErrConversion, err)
	}

	if cached == "" {
		return out, cleanup, nil
	}
	defer cleanup()
	if err := os.Rename(out, cached); err != nil {
		if err := copyFile(out, cached); err != nil {
			return "", nil, fmt.Errorf("persist %s: %w", cached, err)
		}
	}
	logger.Debug("cached heic->png", "cache", cached)
	return cached, nil, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
