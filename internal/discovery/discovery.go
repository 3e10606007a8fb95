// Package discovery resolves command-line inputs into video files.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	cverrors "github.com/goldsheep3/clockvid/internal/errors"
	"github.com/goldsheep3/clockvid/internal/logging"
	"github.com/goldsheep3/clockvid/internal/util"
)

// DiscoveryResult contains the results of file discovery with metadata.
type DiscoveryResult struct {
	Files        []string
	SkippedCount int
}

// FindVideoFiles finds video files in the given directory, skipping hidden
// files and earlier clock outputs. Returns files sorted alphabetically by
// filename.
func FindVideoFiles(inputDir string, logger *logging.Logger) (*DiscoveryResult, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, cverrors.NewPathError(fmt.Sprintf("directory does not exist: %s", inputDir))
	}
	if !info.IsDir() {
		return nil, cverrors.NewPathError(fmt.Sprintf("%s is not a directory", inputDir))
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, cverrors.NewIOError(fmt.Sprintf("cannot read directory %s", inputDir), err)
	}

	result := &DiscoveryResult{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		// Skip hidden files
		if strings.HasPrefix(name, ".") {
			continue
		}

		fullPath := filepath.Join(inputDir, name)
		if util.IsVideoFile(fullPath) && !util.IsClockOutput(fullPath) {
			result.Files = append(result.Files, fullPath)
		} else {
			result.SkippedCount++
		}
	}

	if len(result.Files) == 0 {
		return nil, cverrors.NewNoFilesFoundError(inputDir)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(result.Files[i])) < strings.ToLower(filepath.Base(result.Files[j]))
	})

	logDiscoveredFiles(result, logging.OrGlobal(logger).WithComponent("discovery"))
	return result, nil
}

// ExpandInputs replaces each directory in paths with the video files it
// contains and keeps plain files as given, preserving argument order.
func ExpandInputs(paths []string, logger *logging.Logger) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, cverrors.NewPathError(fmt.Sprintf("input does not exist: %s", p))
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		res, err := FindVideoFiles(p, logger)
		if err != nil {
			return nil, err
		}
		files = append(files, res.Files...)
	}
	if len(files) == 0 {
		return nil, cverrors.NewPathError("no inputs given")
	}
	return files, nil
}

// logDiscoveredFiles logs the first 5 discovered files plus a count.
func logDiscoveredFiles(result *DiscoveryResult, logger *logging.Logger) {
	logger.Info("found video files", "count", len(result.Files), "skipped", result.SkippedCount)

	maxToLog := min(5, len(result.Files))
	for i := 0; i < maxToLog; i++ {
		logger.Debug("discovered", "file", filepath.Base(result.Files[i]))
	}

	if len(result.Files) > 5 {
		logger.Debug("more files not listed", "count", len(result.Files)-5)
	}
}
