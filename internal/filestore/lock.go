package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dirLockName      = ".videoai.lock"
	dirLockOwnerFile = "owner.json"
)

// DirLock serializes writers of one directory across processes. It is a
// directory created with os.Mkdir, which fails if it already exists.
type DirLock struct {
	lockDir string
}

type dirLockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireDirLock(dir string) (DirLock, error) {
	target := strings.TrimSpace(dir)
	if target == "" {
		return DirLock{}, fmt.Errorf("directory is required")
	}
	if err := Mkdir(target); err != nil {
		return DirLock{}, err
	}

	lockDir := filepath.Join(target, dirLockName)
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			var owner dirLockOwner
			if readErr := readOwner(filepath.Join(lockDir, dirLockOwnerFile), &owner); readErr == nil && owner.PID > 0 && owner.CreatedAt != "" {
				return DirLock{}, fmt.Errorf(
					"directory is locked: %s (pid=%d created_at=%s host=%s)",
					target, owner.PID, owner.CreatedAt, owner.Hostname,
				)
			}
			return DirLock{}, fmt.Errorf("directory is locked: %s", target)
		}
		return DirLock{}, fmt.Errorf("acquire lock for %s: %w", target, err)
	}

	owner := dirLockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	data, err := json.Marshal(owner)
	if err == nil {
		err = WriteBytes(filepath.Join(lockDir, dirLockOwnerFile), data)
	}
	if err != nil {
		_ = os.RemoveAll(lockDir)
		return DirLock{}, fmt.Errorf("write lock owner for %s: %w", target, err)
	}

	return DirLock{lockDir: lockDir}, nil
}

// AcquireDirLockWait retries AcquireDirLock until it succeeds or timeout
// elapses.
func AcquireDirLockWait(dir string, timeout time.Duration) (DirLock, error) {
	deadline := time.Now().Add(timeout)
	for {
		lock, err := AcquireDirLock(dir)
		if err == nil {
			return lock, nil
		}
		if time.Now().After(deadline) {
			return DirLock{}, err
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (l DirLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, dirLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release lock %s: %w", l.lockDir, err)
	}
	return nil
}

func readOwner(path string, owner *dirLockOwner) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, owner)
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
