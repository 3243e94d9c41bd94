package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var migrationFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

const (
	upAnnotation   = "-- +goose Up"
	downAnnotation = "-- +goose Down"
)

// MigrationFile is one goose SQL file on disk.
type MigrationFile struct {
	Version int64
	Name    string
	Path    string
}

// ListDir returns the SQL migrations in dir ordered by version. A missing dir
// yields an empty list.
func ListDir(dir string) ([]MigrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var files []MigrationFile
	versions := map[int64]string{}
	names := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m := migrationFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", e.Name())
		}
		version, _ := strconv.ParseInt(m[1], 10, 64)
		if prev, ok := versions[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %d in %q and %q", version, prev, e.Name())
		}
		if prev, ok := names[m[2]]; ok {
			return nil, fmt.Errorf("duplicate migration name %q in %q and %q", m[2], prev, e.Name())
		}
		versions[version] = e.Name()
		names[m[2]] = e.Name()
		files = append(files, MigrationFile{Version: version, Name: m[2], Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// ValidateDir checks every migration's filename, its goose annotations, and that
// its Up section holds at least one statement.
func ValidateDir(dir string) ([]MigrationFile, error) {
	files, err := ListDir(dir)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", f.Path, err)
		}
		if err := checkSections(string(raw)); err != nil {
			return nil, fmt.Errorf("migration %q: %w", filepath.Base(f.Path), err)
		}
	}
	return files, nil
}

func checkSections(sql string) error {
	upAt := strings.Index(sql, upAnnotation)
	if upAt < 0 {
		return fmt.Errorf("missing %q", upAnnotation)
	}
	downAt := strings.Index(sql, downAnnotation)
	if downAt < 0 {
		return fmt.Errorf("missing %q", downAnnotation)
	}
	if downAt < upAt {
		return fmt.Errorf("%q must come before %q", upAnnotation, downAnnotation)
	}
	if !hasStatement(sql[upAt+len(upAnnotation) : downAt]) {
		return fmt.Errorf("up section has no SQL statements")
	}
	return nil
}

func hasStatement(section string) bool {
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}
