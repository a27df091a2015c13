// Package archive keeps named courses in a SQL database through GORM.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/conecourse/editor/internal/config"
	"github.com/conecourse/editor/internal/courseio"
	"github.com/conecourse/editor/internal/geo"
)

var (
	// ErrNotFound is returned when no course has the requested name.
	ErrNotFound = errors.New("course not found")
	// ErrEmptyName is returned when saving a course without a name.
	ErrEmptyName = errors.New("course name is required")
)

// Archive stores course versions.
type Archive struct {
	db     *gorm.DB
	driver string
	logger *slog.Logger
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.ArchiveConfig, log *slog.Logger) (*Archive, error) {
	if log == nil {
		log = slog.Default()
	}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite":
		db, err = OpenSQLite(cfg.SQLite.Path)
	case "postgres":
		db, err = OpenPostgres(cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown archive driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s archive: %w", cfg.Driver, err)
	}

	a := &Archive{db: db, driver: strings.ToLower(cfg.Driver), logger: log}
	if a.driver == "" {
		a.driver = "sqlite"
	}
	if err := a.db.AutoMigrate(&CourseRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Debug("Archive ready", "driver", a.driver)
	return a, nil
}

// OpenSQLite returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// One connection keeps an in-memory database alive and visible.
	if path == "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return db, nil
}

// OpenPostgres returns a connection to a Postgres database.
func OpenPostgres(cfg config.PostgresConfig) (*gorm.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=%s`,
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database, sslMode)

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

// Close closes the underlying connection pool.
func (a *Archive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save stores f as the newest version of name.
func (a *Archive) Save(ctx context.Context, name string, f courseio.File) (CourseRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CourseRecord{}, ErrEmptyName
	}
	data, err := json.Marshal(f)
	if err != nil {
		return CourseRecord{}, fmt.Errorf("failed to encode course: %w", err)
	}

	rec := CourseRecord{
		UUID:       uuid.NewString(),
		Name:       name,
		ConeCount:  len(f.Cones),
		PathLength: geo.PathLength(f.Positions()),
		PathWKT:    geo.PathWKT(f.Positions()),
		Data:       datatypes.JSON(data),
	}
	if err := a.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return CourseRecord{}, fmt.Errorf("failed to save course %q: %w", name, err)
	}
	a.logger.Info("Course archived", "name", name, "uuid", rec.UUID, "cones", rec.ConeCount)
	return rec, nil
}

// Load returns the newest version of name.
func (a *Archive) Load(ctx context.Context, name string) (courseio.File, CourseRecord, error) {
	var rec CourseRecord
	err := a.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at DESC").Order("id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return courseio.File{}, CourseRecord{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return courseio.File{}, CourseRecord{}, fmt.Errorf("failed to load course %q: %w", name, err)
	}

	f, err := courseio.Parse(rec.Data)
	if err != nil {
		return courseio.File{}, rec, err
	}
	return f, rec, nil
}

// List summarises every saved course by name, newest version first.
func (a *Archive) List(ctx context.Context) ([]Summary, error) {
	var recs []CourseRecord
	err := a.db.WithContext(ctx).
		Select("id", "uuid", "name", "cone_count", "path_length", "created_at").
		Order("name").Order("created_at DESC").Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	var out []Summary
	for _, r := range recs {
		if n := len(out); n > 0 && out[n-1].Name == r.Name {
			out[n-1].Versions++
			continue
		}
		out = append(out, Summary{
			Name:       r.Name,
			UUID:       r.UUID,
			ConeCount:  r.ConeCount,
			PathLength: r.PathLength,
			Versions:   1,
			SavedAt:    r.CreatedAt,
		})
	}
	return out, nil
}

// Delete removes every version of name and returns how many were removed.
func (a *Archive) Delete(ctx context.Context, name string) (int64, error) {
	res := a.db.WithContext(ctx).Where("name = ?", name).Delete(&CourseRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete course %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return res.RowsAffected, nil
}

// Dump copies a SQLite archive into a file with VACUUM INTO.
func (a *Archive) Dump(path string) error {
	if a.driver != "sqlite" {
		return fmt.Errorf("dump is only supported for sqlite, not %s", a.driver)
	}
	if path == "" {
		return fmt.Errorf("dump path not set")
	}

	// remove existing file if it exists
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("error removing existing DB file: %w", err)
		}
	}
	if err := a.db.Exec("VACUUM INTO ?", path).Error; err != nil {
		return fmt.Errorf("error dumping archive to disk: %w", err)
	}
	return nil
}
