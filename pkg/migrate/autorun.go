package migrate

import (
	"context"
	"fmt"

	"github.com/vegthaliclub/catering-backend/pkg/config"
	"github.com/vegthaliclub/catering-backend/pkg/db"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

// MaybeAutoRun applies the embedded migrations on startup when auto-migrate is
// enabled. SQLite deployments always migrate since nothing else owns the file.
func MaybeAutoRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.AutoMigrate && !cfg.DB.IsSQLite() {
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "driver": client.Driver()}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running goose migrations (auto-run)")

	if err := Run(ctx, sqlDB, client.Driver(), EmbeddedDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
