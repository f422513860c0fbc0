package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/HerbHall/winegallery/internal/services"
	"github.com/HerbHall/winegallery/internal/store"
	"github.com/HerbHall/winegallery/internal/testutil"
	"github.com/HerbHall/winegallery/pkg/models"
)

func seedDatabase(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()
	db, err := store.New(ctx, path)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer db.Close()

	repo, err := services.NewSQLiteWineRepository(ctx, db)
	if err != nil {
		t.Fatalf("NewSQLiteWineRepository: %v", err)
	}
	if _, err := repo.Import(ctx, "seed", testutil.NewWines(3)); err != nil {
		t.Fatalf("Import: %v", err)
	}
}

func TestBackupRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	dbPath := filepath.Join(src, "winegallery.db")
	cfgPath := filepath.Join(src, "winegallery.yaml")
	seedDatabase(t, dbPath)
	if err := os.WriteFile(cfgPath, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := Backup(ctx, dbPath, cfgPath, archive); err != nil {
		t.Fatalf("Backup: %v", err)
	}

	dst := t.TempDir()
	manifest, err := Restore(ctx, archive, dst, false)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(manifest.Files) != 2 {
		t.Errorf("manifest files = %v, want 2 entries", manifest.Files)
	}
	if manifest.Build.Version == "" {
		t.Error("manifest build version is empty")
	}

	restored, err := store.New(ctx, filepath.Join(dst, "winegallery.db"))
	if err != nil {
		t.Fatalf("open restored db: %v", err)
	}
	defer restored.Close()
	repo, err := services.NewSQLiteWineRepository(ctx, restored)
	if err != nil {
		t.Fatalf("NewSQLiteWineRepository: %v", err)
	}
	records, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 3 || records[0].Get(models.FieldTitle) != "Wine 0" {
		t.Errorf("restored records = %v", records)
	}

	cfg, err := os.ReadFile(filepath.Join(dst, "winegallery.yaml"))
	if err != nil {
		t.Fatalf("read restored config: %v", err)
	}
	if string(cfg) != "server:\n  port: 9000\n" {
		t.Errorf("restored config = %q", cfg)
	}
}

func TestRestore_RefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	src := t.TempDir()
	dbPath := filepath.Join(src, "winegallery.db")
	seedDatabase(t, dbPath)

	archive := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := Backup(ctx, dbPath, "", archive); err != nil {
		t.Fatalf("Backup: %v", err)
	}

	dst := t.TempDir()
	if err := os.WriteFile(filepath.Join(dst, "winegallery.db"), []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Restore(ctx, archive, dst, false); !errors.Is(err, ErrExists) {
		t.Errorf("Restore without force = %v, want ErrExists", err)
	}
	if _, err := Restore(ctx, archive, dst, true); err != nil {
		t.Errorf("Restore with force: %v", err)
	}
}

func TestBackup_MissingDatabase(t *testing.T) {
	err := Backup(context.Background(), filepath.Join(t.TempDir(), "nope.db"), "", filepath.Join(t.TempDir(), "out.tar.gz"))
	if err == nil {
		t.Error("expected error for missing database")
	}
}
