package store

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"whlp/db"
)

// Migrate applies pending goose migrations. An empty dir uses the set
// embedded in the binary.
func Migrate(ctx context.Context, s *Store, dir string, logger *zap.Logger) error {
	sqlDB, dialect, err := s.SQL()
	if err != nil {
		return err
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	goose.SetLogger(gooseLogger{logger.Sugar()})

	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = db.MigrationsDir
	} else {
		goose.SetBaseFS(nil)
	}
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("run migrations from %s: %w", dir, err)
	}
	return nil
}

type gooseLogger struct {
	s *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...any) { l.s.Infof(format, v...) }
func (l gooseLogger) Fatalf(format string, v ...any) { l.s.Fatalf(format, v...) }
