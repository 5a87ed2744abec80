// Package localmodel downloads and manages GGUF model files for local
// inference. Models are fetched from Hugging Face (or a custom URL) into the
// user's data directory, with progress reporting for UIs.
package localmodel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hexnote/hexnote-ai-go/settings"
)

// ErrNoSource indicates the provider has no configured download source.
var ErrNoSource = errors.New("localmodel: no model source configured")

// Progress reports download state. TotalBytes is nil when the server did not
// send a content length.
type Progress struct {
	Provider        string
	BytesDownloaded int64
	TotalBytes      *int64
	Percentage      float64
}

// ProgressFunc receives download progress callbacks.
type ProgressFunc func(Progress)

// Status describes the on-disk state of one model.
type Status struct {
	Provider     string
	IsDownloaded bool
	FileSize     int64
	Path         string
}

// ModelsDir returns the directory local models are stored in, creating it
// if needed.
func ModelsDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine models directory: %w", err)
	}
	dir := filepath.Join(base, "hexnote", "models")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// resolveSource returns the download URL and local filename for a provider.
// A custom URL wins over repo/filename.
func resolveSource(provider string, mgr *settings.Manager) (url, filename string, err error) {
	cfg, ok := mgr.LocalModel(provider)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrNoSource, provider)
	}

	if cfg.CustomURL != "" {
		parts := strings.Split(cfg.CustomURL, "/")
		filename = parts[len(parts)-1]
		if filename == "" {
			filename = "model.gguf"
		}
		return cfg.CustomURL, filename, nil
	}

	if cfg.Repo == "" || cfg.Filename == "" {
		return "", "", fmt.Errorf("%w: %s", ErrNoSource, provider)
	}
	url = fmt.Sprintf("https://huggingface.co/%s/resolve/main/%s", cfg.Repo, cfg.Filename)
	return url, cfg.Filename, nil
}

// WeightsPath returns the local path a provider's model lives at (whether or
// not it has been downloaded yet).
func WeightsPath(provider string, mgr *settings.Manager) (string, error) {
	_, filename, err := resolveSource(provider, mgr)
	if err != nil {
		return "", err
	}
	dir, err := ModelsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filename), nil
}

// IsDownloaded reports whether the model file exists on disk.
func IsDownloaded(provider string, mgr *settings.Manager) (bool, error) {
	path, err := WeightsPath(provider, mgr)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// GetStatus returns the download state of a provider's model.
func GetStatus(provider string, mgr *settings.Manager) (Status, error) {
	path, err := WeightsPath(provider, mgr)
	if err != nil {
		return Status{}, err
	}

	status := Status{Provider: provider}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return status, nil
		}
		return Status{}, err
	}
	status.IsDownloaded = true
	status.FileSize = info.Size()
	status.Path = path
	return status, nil
}

// Download fetches a provider's model, reporting progress roughly every 0.5%.
// The file is written to a temporary path and renamed into place only after a
// complete, GGUF-validated download.
func Download(ctx context.Context, provider string, mgr *settings.Manager, onProgress ProgressFunc) (string, error) {
	url, _, err := resolveSource(provider, mgr)
	if err != nil {
		return "", err
	}
	path, err := WeightsPath(provider, mgr)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		log.Printf("[LOCALMODEL] model already downloaded: %s", path)
		return path, nil
	}

	log.Printf("[LOCALMODEL] downloading model from: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("model download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model download failed with status %d", resp.StatusCode)
	}

	var totalBytes *int64
	if resp.ContentLength > 0 {
		total := resp.ContentLength
		totalBytes = &total
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return "", err
	}

	var downloaded int64
	lastEmitted := -1.0
	buf := make([]byte, 64*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				file.Close()
				os.Remove(tempPath)
				return "", writeErr
			}
			downloaded += int64(n)

			percentage := 0.0
			if totalBytes != nil {
				percentage = float64(downloaded) / float64(*totalBytes) * 100.0
			}
			complete := totalBytes != nil && downloaded == *totalBytes
			if onProgress != nil && (percentage-lastEmitted >= 0.5 || complete) {
				lastEmitted = percentage
				onProgress(Progress{
					Provider:        provider,
					BytesDownloaded: downloaded,
					TotalBytes:      totalBytes,
					Percentage:      percentage,
				})
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			file.Close()
			os.Remove(tempPath)
			return "", readErr
		}
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return "", err
	}

	if err := ValidateGGUF(tempPath); err != nil {
		os.Remove(tempPath)
		return "", err
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", err
	}

	log.Printf("[LOCALMODEL] model downloaded successfully: %s", path)
	return path, nil
}

// Delete removes a downloaded model file. Deleting an absent model is a no-op.
func Delete(provider string, mgr *settings.Manager) error {
	path, err := WeightsPath(provider, mgr)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
