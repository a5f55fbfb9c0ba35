package migrate

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"
)

const versionLayout = "20060102150405"

var (
	fileNameRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	slugStrip  = regexp.MustCompile(`[^a-z0-9]+`)

	sqlTemplate = template.Must(template.New("migration").Parse(`-- +goose Up
-- +goose StatementBegin
-- {{.Slug}}
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert {{.Slug}}
-- +goose StatementEnd
`))
)

func slugify(name string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// CreateSQLMigration writes an empty goose migration named
// <dir>/<UTC timestamp>_<slug>.sql and returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	var body bytes.Buffer
	if err := sqlTemplate.Execute(&body, struct{ Slug string }{slug}); err != nil {
		return "", fmt.Errorf("render migration: %w", err)
	}

	target := filepath.Join(dir, time.Now().UTC().Format(versionLayout)+"_"+slug+".sql")
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create migration %q: %w", target, err)
	}
	if _, err := f.Write(body.Bytes()); err != nil {
		f.Close()
		return "", fmt.Errorf("write migration %q: %w", target, err)
	}
	return target, f.Close()
}

// ValidateDir checks every .sql file for a well formed name, a unique
// version, both goose sections, and balanced statement blocks. Pass
// EmbeddedDir to check the migrations compiled into the binary.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	fsys, root := dirFS(dir), "."
	if dir == EmbeddedDir {
		root = EmbeddedDir
	}

	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	versions := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		m := fileNameRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (want %s_name.sql)", name, versionLayout)
		}
		if prev, dup := versions[m[1]]; dup {
			return fmt.Errorf("version %s used by both %q and %q", m[1], prev, name)
		}
		versions[m[1]] = name

		raw, err := fs.ReadFile(fsys, path.Join(root, name))
		if err != nil {
			return fmt.Errorf("read %q: %w", name, err)
		}
		if err := checkAnnotations(string(raw)); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}

	if len(versions) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return nil
}

func checkAnnotations(body string) error {
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(body, marker) {
			return fmt.Errorf("missing %q", marker)
		}
	}
	if strings.Count(body, "-- +goose StatementBegin") != strings.Count(body, "-- +goose StatementEnd") {
		return fmt.Errorf("unbalanced StatementBegin/StatementEnd")
	}
	return nil
}
