package database

import (
	"sort"
	"strings"
	"testing"
)

func TestMigrationNamesSortedAndReadable(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("migrationNames: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	if !sort.StringsAreSorted(names) {
		t.Fatalf("migrations not in apply order: %v", names)
	}
	for _, name := range names {
		if !strings.HasSuffix(name, ".sql") {
			t.Errorf("unexpected migration file %q", name)
		}
		sql, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(sql) == 0 {
			t.Errorf("migration %s is empty", name)
		}
	}
}
