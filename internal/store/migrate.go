package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// migrationRunner is implemented by each backend. applyMigration must run the
// file and record it in the migrations table in one transaction.
type migrationRunner interface {
	appliedMigrations(ctx context.Context) (map[string]bool, error)
	applyMigration(ctx context.Context, name, description, sql string) error
}

// runMigrations applies the pending files under dir in filename order and
// returns the names it applied. Files already in the migrations table are
// skipped.
func runMigrations(ctx context.Context, dir string, r migrationRunner) ([]string, error) {
	files, err := fs.Glob(migrationFiles, path.Join(dir, "*.sql"))
	if err != nil || len(files) == 0 {
		return nil, fmt.Errorf("no migration files found in %s", dir)
	}
	sort.Strings(files)

	applied, err := r.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	var ran []string
	for _, f := range files {
		filename := path.Base(f)
		if applied[filename] {
			continue
		}
		content, err := migrationFiles.ReadFile(f)
		if err != nil {
			return ran, fmt.Errorf("read %s: %w", filename, err)
		}
		if err := r.applyMigration(ctx, filename, descriptionFromFilename(filename), string(content)); err != nil {
			return ran, fmt.Errorf("apply %s: %w", filename, err)
		}
		ran = append(ran, filename)
	}
	return ran, nil
}

var migrationPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

// descriptionFromFilename strips the YYYY-MM-DD-NNN- prefix and .sql suffix.
func descriptionFromFilename(filename string) string {
	name := strings.TrimSuffix(filename, ".sql")
	name = migrationPrefix.ReplaceAllString(name, "")
	return strings.ReplaceAll(name, "-", " ")
}
