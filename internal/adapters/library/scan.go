package library

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/evanschultz/pomotask/internal/domain"
)

// supportedExts lists the lower-cased extensions the player can decode.
var supportedExts = []string{".mp3", ".wav"}

// Logger receives entries the scan had to skip.
type Logger interface {
	Warn(string, ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// Option configures a scan.
type Option func(*scanner)

// WithLogger reports skipped entries to logger.
func WithLogger(logger Logger) Option {
	return func(s *scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// scanner accumulates files across the root and every linked directory.
type scanner struct {
	logger  Logger
	visited map[string]struct{}
	files   []domain.AudioFileInfo
}

// Scan walks dir, following symlinked files and directories, and returns the
// playable files sorted by name. A missing directory yields an empty list and
// fs.ErrNotExist. Unreadable entries below the root are skipped and logged.
func Scan(dir string, opts ...Option) ([]domain.AudioFileInfo, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return []domain.AudioFileInfo{}, fmt.Errorf("scan music dir: %w", domain.ErrInvalidPath)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return []domain.AudioFileInfo{}, fmt.Errorf("scan music dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return []domain.AudioFileInfo{}, fmt.Errorf("scan music dir %q: %w", dir, domain.ErrInvalidPath)
	}

	s := &scanner{
		logger:  nopLogger{},
		visited: map[string]struct{}{},
		files:   []domain.AudioFileInfo{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.walk(dir)

	slices.SortStableFunc(s.files, func(a, b domain.AudioFileInfo) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return s.files, nil
}

// walk scans one directory tree. dir may itself be a symlink; its resolved
// path is recorded so link cycles are entered once.
func (s *scanner) walk(dir string) {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		s.skip(dir, err)
		return
	}
	if !s.enter(real) {
		return
	}
	_ = filepath.WalkDir(real, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.skip(path, err)
			return nil
		}
		switch {
		case d.IsDir():
			if path == real {
				return nil
			}
			if !s.enter(path) {
				return fs.SkipDir
			}
		case d.Type()&fs.ModeSymlink != 0:
			s.followLink(path)
		case d.Type().IsRegular():
			s.add(path)
		}
		return nil
	})
}

// followLink includes a linked audio file or walks a linked directory.
func (s *scanner) followLink(path string) {
	target, err := os.Stat(path)
	if err != nil {
		s.skip(path, err)
		return
	}
	switch {
	case target.IsDir():
		s.walk(path)
	case target.Mode().IsRegular():
		s.add(path)
	}
}

// enter marks a resolved directory visited and reports whether it was new.
func (s *scanner) enter(dir string) bool {
	if _, seen := s.visited[dir]; seen {
		return false
	}
	s.visited[dir] = struct{}{}
	return true
}

func (s *scanner) add(path string) {
	if !slices.Contains(supportedExts, strings.ToLower(filepath.Ext(path))) {
		return
	}
	file, err := domain.NewAudioFileInfo(path)
	if err != nil {
		s.skip(path, err)
		return
	}
	s.files = append(s.files, file)
}

func (s *scanner) skip(path string, err error) {
	s.logger.Warn("music entry skipped", "path", path, "err", err)
}
