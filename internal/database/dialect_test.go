package database

import (
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "SELECT * FROM children WHERE id = ?"
		if got := dialect.RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %v, want unchanged", got)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "UPDATE children SET first_name = ?, notes = ? WHERE id = ?"
		expected := "UPDATE children SET first_name = $1, notes = $2 WHERE id = $3"
		if got := dialect.RewriteQuery(query); got != expected {
			t.Errorf("RewriteQuery() = %v, want %v", got, expected)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("RewriteQuery", func(t *testing.T) {
		query := "DELETE FROM children WHERE id = ?"
		if got := dialect.RewriteQuery(query); got != query {
			t.Errorf("RewriteQuery() = %v, want unchanged", got)
		}
	})
}

func TestUpsertUserSettings(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		contains string
	}{
		{name: "sqlite", dialect: NewSQLiteDialect(), contains: "ON CONFLICT(user_id)"},
		{name: "postgres", dialect: NewPostgresDialect(), contains: "ON CONFLICT (user_id)"},
		{name: "mysql", dialect: NewMySQLDialect(), contains: "ON DUPLICATE KEY UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := tt.dialect.UpsertUserSettings()
			if !strings.Contains(query, tt.contains) {
				t.Errorf("UpsertUserSettings() missing %q in %q", tt.contains, query)
			}
			if !strings.Contains(query, "user_settings") {
				t.Errorf("UpsertUserSettings() does not target user_settings: %q", query)
			}
		})
	}
}
