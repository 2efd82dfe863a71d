package ocr

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	kerrors "github.com/kreuzbergo/kreuzbergo/internal/errors"
)

// ModelDef is one downloadable model artifact: its remote filename, the
// name it's stored under locally, and the SHA-256 checksum verified
// after download.
type ModelDef struct {
	RemoteFilename string
	LocalFilename  string
	SHA256         string
}

var sharedModels = []ModelDef{
	{RemoteFilename: "det.onnx", LocalFilename: "det.onnx", SHA256: ""},
	{RemoteFilename: "cls.onnx", LocalFilename: "cls.onnx", SHA256: ""},
}

// ModelManager owns a local cache directory holding the shared
// detection/classification models and each script family's recognition
// model + character dictionary.
type ModelManager struct {
	cacheDir  string
	hubURL    string
	client    *http.Client
	checksums map[string]string
}

// NewModelManager creates a manager rooted at cacheDir, downloading from
// hubURL when a model is missing locally. No checksums are pinned by
// default; the upstream hub doesn't publish a manifest, so verification is
// opt-in via SetChecksum for deployments that maintain their own.
func NewModelManager(cacheDir, hubURL string) *ModelManager {
	return &ModelManager{cacheDir: cacheDir, hubURL: hubURL, client: http.DefaultClient, checksums: map[string]string{}}
}

// SetChecksum pins the expected SHA-256 (hex-encoded) for a remote model
// filename, verified after every download of that file.
func (m *ModelManager) SetChecksum(remoteFilename, sha256Hex string) {
	m.checksums[remoteFilename] = sha256Hex
}

// EnsureSharedModels ensures both the detection and classification
// models are present in the cache.
func (m *ModelManager) EnsureSharedModels(jobID string) (det, cls string, err error) {
	for i, def := range sharedModels {
		path, ensureErr := m.ensureModel(jobID, "shared", def)
		if ensureErr != nil {
			return "", "", ensureErr
		}
		if i == 0 {
			det = path
		} else {
			cls = path
		}
	}
	return det, cls, nil
}

// EnsureRecModel ensures both rec/{family}/model.onnx and
// rec/{family}/dict.txt are present, downloading each independently.
// Unknown families fail with a Plugin error.
func (m *ModelManager) EnsureRecModel(jobID string, family ScriptFamily) (modelPath, dictPath string, err error) {
	if !knownFamilies[family] {
		return "", "", kerrors.NewPluginFailureError(jobID, "modelmanager", "unknown script family: "+string(family), nil)
	}

	subdir := filepath.Join("rec", string(family))
	modelPath, err = m.ensureModel(jobID, subdir, ModelDef{RemoteFilename: "model.onnx", LocalFilename: "model.onnx"})
	if err != nil {
		return "", "", err
	}
	dictPath, err = m.ensureModel(jobID, subdir, ModelDef{RemoteFilename: "dict.txt", LocalFilename: "dict.txt"})
	if err != nil {
		return "", "", err
	}
	return modelPath, dictPath, nil
}

// ensureModel returns the local path if present, otherwise downloads,
// verifies, and copies it into the cache directory.
func (m *ModelManager) ensureModel(jobID, subdir string, def ModelDef) (string, error) {
	localPath := filepath.Join(m.cacheDir, subdir, def.LocalFilename)
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return "", kerrors.NewIOError(jobID, localPath, err)
	}

	remoteURL := m.hubURL + "/" + def.RemoteFilename
	resp, err := m.client.Get(remoteURL)
	if err != nil {
		return "", kerrors.NewIOError(jobID, remoteURL, err)
	}
	defer resp.Body.Close()

	tmpPath := localPath + ".download"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", kerrors.NewIOError(jobID, tmpPath, err)
	}

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(out, hasher), resp.Body); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return "", kerrors.NewIOError(jobID, tmpPath, err)
	}
	out.Close()

	expectedSHA256 := def.SHA256
	if expectedSHA256 == "" {
		expectedSHA256 = m.checksums[def.RemoteFilename]
	}
	if expectedSHA256 != "" {
		sum := hex.EncodeToString(hasher.Sum(nil))
		if sum != expectedSHA256 {
			os.Remove(tmpPath)
			return "", kerrors.NewValidationError(jobID, fmt.Sprintf("checksum mismatch for %s: got %s want %s", def.RemoteFilename, sum, expectedSHA256))
		}
	}

	if err := os.Rename(tmpPath, localPath); err != nil {
		return "", kerrors.NewIOError(jobID, localPath, err)
	}
	return localPath, nil
}

// CacheStats reports the total bytes and entry count under the cache
// directory.
func (m *ModelManager) CacheStats() (totalBytes int64, entryCount int, err error) {
	err = filepath.Walk(m.cacheDir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if !info.IsDir() {
			totalBytes += info.Size()
			entryCount++
		}
		return nil
	})
	return totalBytes, entryCount, err
}

// ClearCache removes every file under the cache directory.
func (m *ModelManager) ClearCache() error {
	return os.RemoveAll(m.cacheDir)
}
