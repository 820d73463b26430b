package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/pressly/goose/v3"
)

var nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)

// Statements must stay valid on both postgres and sqlite.
var sqlTemplate = template.Must(template.New("storefront.sql").Parse(`-- +goose Up
-- +goose StatementBegin
-- {{.CamelName}} ({{.Version}})
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert {{.CamelName}}
-- +goose StatementEnd
`))

// CreateSQLMigration writes <dir>/<YYYYMMDDHHMMSS>_<name>.sql and returns its path.
func CreateSQLMigration(dir, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	safe := sanitizeName(name)
	if safe == "" {
		return "", fmt.Errorf("name %q results in empty sanitized filename", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	goose.SetSequential(false)
	if err := goose.CreateWithTemplate(nil, dir, sqlTemplate, safe, "sql"); err != nil {
		return "", fmt.Errorf("create migration %q: %w", safe, err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*_"+safe+".sql"))
	if err != nil || len(matches) == 0 {
		return "", fmt.Errorf("locate migration %q in %q", safe, dir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}

func sanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}
