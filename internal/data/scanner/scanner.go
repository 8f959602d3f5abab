package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-study-tracker/internal/util"
)

// Extension of subject files in the data directory.
const Extension = ".parquet"

// FileScanner lists subject files in a data directory. Only the top level
// is scanned: every subject is one file named after it.
type FileScanner struct {
	baseDir string
}

// Subject is one discovered subject file.
type Subject struct {
	Name string
	Path string
	Size int64
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{baseDir: baseDir}
}

// Scan returns the subjects found in the data directory sorted by name.
// A missing directory yields no subjects.
func (s *FileScanner) Scan() ([]Subject, error) {
	start := time.Now()
	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan %s: %w", s.baseDir, err)
	}

	var subjects []Subject
	for _, entry := range entries {
		if entry.IsDir() || !IsSubjectFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", entry.Name(), err))
			continue
		}
		subjects = append(subjects, Subject{
			Name: SubjectName(entry.Name()),
			Path: filepath.Join(s.baseDir, entry.Name()),
			Size: info.Size(),
		})
	}

	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d entries, found %d subjects",
		time.Since(start), len(entries), len(subjects)))
	return subjects, nil
}

// Names is Scan reduced to subject names.
func (s *FileScanner) Names() ([]string, error) {
	subjects, err := s.Scan()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(subjects))
	for i, sub := range subjects {
		names[i] = sub.Name
	}
	return names, nil
}

// IsSubjectFile reports whether name is a visible subject file.
func IsSubjectFile(name string) bool {
	base := filepath.Base(name)
	return !strings.HasPrefix(base, ".") && strings.EqualFold(filepath.Ext(base), Extension)
}

// SubjectName strips the directory and extension from a subject file path.
func SubjectName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
