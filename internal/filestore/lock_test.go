package filestore

import (
	"testing"
	"time"
)

func TestAcquireDirLock_BlocksConcurrentAcquire(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireDirLock(dir)
	if err != nil {
		t.Fatalf("acquire first lock: %v", err)
	}
	defer func() {
		_ = lock.Release()
	}()

	if _, err := AcquireDirLock(dir); err == nil {
		t.Fatalf("expected second acquire to fail")
	}
	if _, err := AcquireDirLockWait(dir, 120*time.Millisecond); err == nil {
		t.Fatalf("expected timed acquire to fail while held")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release lock: %v", err)
	}

	lock2, err := AcquireDirLockWait(dir, time.Second)
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	if err := lock2.Release(); err != nil {
		t.Fatalf("release second lock: %v", err)
	}
}

func TestDirLockReleaseIsNoopWhenEmpty(t *testing.T) {
	if err := (DirLock{}).Release(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
