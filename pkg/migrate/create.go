package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

const scaffold = `-- +goose Up
-- +goose StatementBegin
-- %[1]s: forward statements go here
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- %[1]s: statements that undo the Up section
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration named after name and returns
// its path. The version is the UTC timestamp of now, bumped past the newest existing
// migration so files always sort after what is already there. The scaffold fails
// ValidateDir until its Up section is filled in.
func CreateSQLMigration(dir, name string, now time.Time) (string, error) {
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("name %q has no usable characters", name)
	}

	existing, err := ListDir(dir)
	if err != nil {
		return "", err
	}
	version, _ := strconv.ParseInt(now.UTC().Format(versionLayout), 10, 64)
	for _, f := range existing {
		if f.Name == slug {
			return "", fmt.Errorf("migration name %q already used by %s", slug, filepath.Base(f.Path))
		}
		if f.Version >= version {
			version = nextVersion(f.Version)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%d_%s.sql", version, slug))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration %q: %w", path, err)
	}
	defer file.Close()
	if _, err := fmt.Fprintf(file, scaffold, slug); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}

func migrationSlug(name string) string {
	return strings.Trim(nonSlugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// nextVersion returns the timestamp one second after version.
func nextVersion(version int64) int64 {
	t, err := time.Parse(versionLayout, strconv.FormatInt(version, 10))
	if err != nil {
		return version + 1
	}
	next, _ := strconv.ParseInt(t.Add(time.Second).Format(versionLayout), 10, 64)
	return next
}
