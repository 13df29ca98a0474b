// README: AI-quota module tests (lazy reset and quota boundary logic).
package aiquota

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestUseTurnCrossMonthReset verifies that a guest with 0 turns left from a
// previous month is automatically reset and the request succeeds.
func TestUseTurnCrossMonthReset(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	// Seed guest with 0 turns from a past month.
	if _, err := db.Exec(ctx, "INSERT INTO ai_quota VALUES ('G-901', 0, '2000-01')"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.UseTurn(ctx, "G-901"); err != nil {
		t.Fatalf("UseTurn after cross-month reset: %v", err)
	}

	var remaining int
	if err := db.QueryRow(ctx, "SELECT turns_remaining FROM ai_quota WHERE guest_id = 'G-901'").Scan(&remaining); err != nil {
		t.Fatalf("query: %v", err)
	}
	if remaining != DefaultTurns-1 {
		t.Fatalf("expected %d turns remaining, got %d", DefaultTurns-1, remaining)
	}
}

// TestUseTurnExhaustedCheck verifies that a guest with 0 turns in the current
// month is blocked.
func TestUseTurnExhaustedCheck(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	if _, err := db.Exec(ctx, "INSERT INTO ai_quota (guest_id, turns_remaining, last_reset_month) VALUES ('G-902', 0, TO_CHAR(NOW(), 'YYYY-MM'))"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	err := svc.UseTurn(ctx, "G-902")
	if err != ErrQuotaExhausted {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
}

// TestUseTurnNewGuest verifies that a guest absent from the table is
// initialised on first call.
func TestUseTurnNewGuest(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	if err := svc.UseTurn(ctx, "G-903"); err != nil {
		t.Fatalf("UseTurn for new guest: %v", err)
	}

	var remaining int
	if err := db.QueryRow(ctx, "SELECT turns_remaining FROM ai_quota WHERE guest_id = 'G-903'").Scan(&remaining); err != nil {
		t.Fatalf("query: %v", err)
	}
	if remaining != DefaultTurns-1 {
		t.Fatalf("expected %d turns remaining after first use, got %d", DefaultTurns-1, remaining)
	}
}

// setupTestService creates a real postgres-backed Service for integration
// tests. It skips the test when CONCIERGE_TEST_DSN is not set.
func setupTestService(t *testing.T) (*Service, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("CONCIERGE_TEST_DSN")
	if dsn == "" {
		t.Skip("CONCIERGE_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigrations(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE ai_quota"); err != nil {
		t.Fatalf("truncate ai_quota: %v", err)
	}

	return NewService(NewStore(db)), db
}

func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	migrations := []string{
		"0001_init.sql",
		"0002_ai_quota.sql",
	}
	for _, name := range migrations {
		path := filepath.Join(root, "migrations", name)
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		cleaned := stripSQLComments(string(content))
		for _, stmt := range splitSQL(cleaned) {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
