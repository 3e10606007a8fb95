package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// TempPrefix starts the name of every intermediate file clockvid writes.
const TempPrefix = "clockvid"

// MinFreeSpace is the free space below which CheckDiskSpace warns.
const MinFreeSpace = 512 * MiB

// CreateTempFilePath returns a unique <prefix>_<random>.<ext> path in dir
// without creating the file.
func CreateTempFilePath(dir, prefix, ext string) (string, error) {
	suffix, err := generateRandomString(8)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s", prefix, suffix)
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return filepath.Join(dir, name), nil
}

// CleanupStaleTempFiles removes files in dir whose names start with prefix
// and whose modification time is older than maxAge. It returns the number of
// files removed. A missing dir is not an error. A non-positive maxAge
// disables cleanup, since every live intermediate would match.
func CleanupStaleTempFiles(dir, prefix string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// EnsureDirectoryWritable checks that dir exists, is a directory and can be
// written to by this process.
func EnsureDirectoryWritable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	return nil
}

// GetAvailableSpace returns the bytes available to unprivileged users on the
// filesystem holding path, or 0 if it cannot be determined.
func GetAvailableSpace(path string) uint64 {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0
	}
	return st.Bavail * uint64(st.Bsize)
}

// CheckDiskSpace reports whether path has at least MinFreeSpace available.
// When it does not and logf is non-nil, a warning is written through logf.
func CheckDiskSpace(path string, logf func(format string, args ...any)) bool {
	avail := GetAvailableSpace(path)
	if avail == 0 || avail >= MinFreeSpace {
		return true
	}
	if logf != nil {
		logf("low disk space in %s: %s available", path, FormatBytes(avail))
	}
	return false
}

// TempAllocator hands out paths for intermediate files. Implementations must
// return a distinct path on every call.
type TempAllocator interface {
	Allocate(kind, ext string) (string, error)
}

// DirAllocator allocates paths inside Dir, tagging each with the run ID so
// concurrent runs sharing a directory never collide.
type DirAllocator struct {
	Dir   string
	RunID string
}

// NewDirAllocator returns an allocator for dir with a fresh run ID.
func NewDirAllocator(dir string) *DirAllocator {
	return &DirAllocator{Dir: dir, RunID: uuid.NewString()[:8]}
}

// Allocate returns a path of the form <dir>/clockvid_<run>_<kind>_<random>.<ext>.
func (a *DirAllocator) Allocate(kind, ext string) (string, error) {
	dir := a.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	prefix := TempPrefix
	if a.RunID != "" {
		prefix += "_" + a.RunID
	}
	return CreateTempFilePath(dir, prefix+"_"+kind, ext)
}

const randomAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func generateRandomString(n int) (string, error) {
	max := big.NewInt(int64(len(randomAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		b[i] = randomAlphabet[idx.Int64()]
	}
	return string(b), nil
}
