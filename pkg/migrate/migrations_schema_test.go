package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE users",
		"CREATE TABLE books",
		"CREATE TABLE borrowings",
		"CHECK (inventory >= 0)",
		"CHECK (cover IN ('HARD', 'SOFT'))",
		"REFERENCES books (id) ON DELETE CASCADE",
		"REFERENCES users (id) ON DELETE CASCADE",
		"WHERE actual_return_date IS NULL",
		"DROP TABLE borrowings",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
