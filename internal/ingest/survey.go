// Package ingest reads site surveys from disk: a directory holding scope.txt plus
// either the survey photos or an ocr.json produced by an earlier OCR pass.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/scope-mapper/constants"
	"github.com/joseph-ayodele/scope-mapper/internal/common"
	"github.com/joseph-ayodele/scope-mapper/internal/entity"
	"github.com/joseph-ayodele/scope-mapper/internal/pipeline"
	"github.com/joseph-ayodele/scope-mapper/internal/schema"
)

// LoadSurveyDir builds a survey from dir. scope.txt is required. When ocr.json is
// present it is validated and used in place of the photos; otherwise every image
// under dir (hidden entries skipped) is queued for OCR.
func LoadSurveyDir(dir string) (pipeline.Survey, error) {
	if strings.TrimSpace(dir) == "" {
		return pipeline.Survey{}, fmt.Errorf("%w: survey dir is required", common.ErrInvalidInput)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return pipeline.Survey{}, fmt.Errorf("stat survey dir: %w", err)
	}
	if !info.IsDir() {
		return pipeline.Survey{}, fmt.Errorf("%w: %s is not a directory", common.ErrInvalidInput, dir)
	}

	scopeText, err := os.ReadFile(filepath.Join(dir, constants.ScopeFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pipeline.Survey{}, fmt.Errorf("%w: %s has no %s", common.ErrInvalidInput, dir, constants.ScopeFileName)
		}
		return pipeline.Survey{}, fmt.Errorf("read scope: %w", err)
	}
	survey := pipeline.Survey{Source: dir, ScopeText: string(scopeText)}

	results, err := LoadOCRFile(filepath.Join(dir, constants.OCRFileName))
	switch {
	case err == nil:
		survey.OCRResults = results
		return survey, nil
	case !errors.Is(err, fs.ErrNotExist):
		return pipeline.Survey{}, err
	}

	images, err := ListImages(dir)
	if err != nil {
		return pipeline.Survey{}, err
	}
	survey.ImagePaths = images
	return survey, nil
}

// LoadOCRFile reads and validates an image-keyed OCR result document.
func LoadOCRFile(path string) (map[string]entity.ImageOCRResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ocr results: %w", err)
	}
	return DecodeOCRResults(data)
}

// DecodeOCRResults validates data against the OCR result schema and decodes it.
func DecodeOCRResults(data []byte) (map[string]entity.ImageOCRResult, error) {
	if err := schema.ValidateOCRResults(data); err != nil {
		return nil, err
	}
	results := map[string]entity.ImageOCRResult{}
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: decode ocr results: %v", common.ErrInvalidInput, err)
	}
	return results, nil
}

// ListImages walks root and returns the photo files in lexical order.
func ListImages(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !AllowedImage(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return paths, nil
}

// FindSurveyDirs returns every directory under root that holds a scope.txt.
func FindSurveyDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path != root && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && d.Name() == constants.ScopeFileName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return dirs, nil
}

// AllowedImage reports whether path has a photo extension accepted for OCR.
func AllowedImage(path string) bool {
	_, ok := constants.AllowedImageExtensions[constants.NormalizeExt(filepath.Ext(path))]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
