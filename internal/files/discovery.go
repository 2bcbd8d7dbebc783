package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	apperrors "trainingreports/internal/errors"
)

// SupportedExtensions lists the input formats the readers understand
var SupportedExtensions = []string{".csv", ".xlsx"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// IsSupported reports whether the file name has a readable extension and is
// not an office lock file
func IsSupported(name string) bool {
	if strings.HasPrefix(filepath.Base(name), "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// FindInputFiles finds supported files matching a glob pattern, oldest first
func (d *Discovery) FindInputFiles(dir string, pattern string) ([]FileInfo, error) {
	fullPath := dir
	if !filepath.IsAbs(dir) {
		fullPath = filepath.Join(d.basePath, dir)
	}

	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(fullPath, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() || !IsSupported(match) {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].Name < files[j].Name
		}
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// LatestInput returns the path of the newest supported file matching pattern
func (d *Discovery) LatestInput(dir string, pattern string) (string, error) {
	files, err := d.FindInputFiles(dir, pattern)
	if err != nil {
		return "", apperrors.NewInputError("failed to search input directory", err).
			WithContext("directory", dir)
	}

	latest, ok := GetLatestFile(files)
	if !ok {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("input file matching %q in %s", pattern, dir))
	}
	return latest.Path, nil
}

// GetLatestFile returns the most recently modified file from a list; on equal
// times the later name wins
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) ||
			(file.ModTime.Equal(latest.ModTime) && file.Name > latest.Name) {
			latest = file
		}
	}

	return latest, true
}
