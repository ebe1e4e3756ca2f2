package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/config"
	pgInfra "github.com/fastygo/planner/internal/infrastructure/postgres"
	"github.com/fastygo/planner/repository"
)

// openTestPool needs PLANNER_TEST_DATABASE_URL pointing at a disposable
// database; every table is truncated first.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("PLANNER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PLANNER_TEST_DATABASE_URL not set")
	}

	cfg := &config.Config{
		Database:   config.DatabaseConfig{URL: url},
		Migrations: config.MigrationsConfig{Enabled: true},
	}
	if err := pgInfra.RunMigrations(cfg, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := pgInfra.NewPool(context.Background(), cfg.Database, nil)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(context.Background(), `TRUNCATE tasks, sessions, users, app_state`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, id, email string) {
	t.Helper()
	user := &domain.User{ID: id, Email: email, Name: id, PasswordHash: "digest", CreatedAt: "2025-01-01T00:00:00.000000"}
	if err := NewUserRepository(pool).Create(context.Background(), user); err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	pool := openTestPool(t)
	seedUser(t, pool, "user-1", "a@x.com")

	err := NewUserRepository(pool).Create(context.Background(), &domain.User{ID: "user-2", Email: "a@x.com"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestSessionTokenIsUnique(t *testing.T) {
	pool := openTestPool(t)
	seedUser(t, pool, "user-1", "a@x.com")
	repo := NewSessionRepository(pool)
	ctx := context.Background()

	if err := repo.Save(ctx, &domain.Session{Token: "tok", UserID: "user-1", CreatedAt: "2025-01-01T00:00:00.000000"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	err := repo.Save(ctx, &domain.Session{Token: "tok", UserID: "user-1", CreatedAt: "2025-01-01T00:00:00.000000"})
	if !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := repo.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "tok"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTaskOwnershipAndOrder(t *testing.T) {
	pool := openTestPool(t)
	seedUser(t, pool, "a", "a@x.com")
	seedUser(t, pool, "b", "b@x.com")
	repo := NewTaskRepository(pool)
	ctx := context.Background()

	for _, task := range []domain.Task{
		{ID: "t2", UserID: "a", Text: "second", Title: "second", Category: domain.CategoryWork, CreatedAt: "2025-01-02T00:00:00.000000"},
		{ID: "t1", UserID: "a", Text: "first", Title: "first", Category: domain.CategoryWork, CreatedAt: "2025-01-01T00:00:00.000000"},
		{ID: "t1b", UserID: "a", Text: "tie", Title: "tie", Category: domain.CategoryWork, CreatedAt: "2025-01-01T00:00:00.000000"},
	} {
		task := task
		if _, err := repo.Create(ctx, &task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	tasks, err := repo.List(ctx, "a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"t1", "t1b", "t2"}
	if len(tasks) != len(want) {
		t.Fatalf("expected %v, got %+v", want, tasks)
	}
	for i := range want {
		if tasks[i].ID != want[i] {
			t.Fatalf("expected %v at %d, got %s", want[i], i, tasks[i].ID)
		}
	}

	if _, err := repo.GetOwned(ctx, "b", "t1"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found for foreign get, got %v", err)
	}
	if _, err := repo.Update(ctx, "b", "t1", func(task *domain.Task) error {
		task.Done = true
		return nil
	}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found for foreign update, got %v", err)
	}
	if err := repo.Delete(ctx, "b", "t1"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}

	got, err := repo.GetOwned(ctx, "a", "t1")
	if err != nil || got.Done {
		t.Fatalf("owner record changed: %+v %v", got, err)
	}
	if err := repo.Delete(ctx, "a", "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "a", "t1"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestImportLegacyClaimsFlagOnce(t *testing.T) {
	pool := openTestPool(t)
	states := NewStateRepository(pool)
	ctx := context.Background()

	in := repository.LegacyImport{
		Owner: &domain.User{ID: "demo", Email: "demo@planner.local", PasswordHash: "d", CreatedAt: "2025-01-01T00:00:00.000000"},
		Tasks: []domain.Task{{ID: "l1", Text: "legacy", Title: "legacy", Category: domain.CategoryWork, CreatedAt: "2024-01-01T00:00:00.000000"}},
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		imported int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := states.ImportLegacy(ctx, in)
			if err != nil {
				t.Errorf("import: %v", err)
				return
			}
			if ok {
				mu.Lock()
				imported++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if imported != 1 {
		t.Fatalf("expected exactly one import, got %d", imported)
	}
	state, err := states.MigrationState(ctx)
	if err != nil || state != domain.Migrated {
		t.Fatalf("expected migrated, got %v (%v)", state, err)
	}
	tasks, err := NewTaskRepository(pool).List(ctx, "demo")
	if err != nil || len(tasks) != 1 {
		t.Fatalf("expected one imported task, got %d (%v)", len(tasks), err)
	}
}
