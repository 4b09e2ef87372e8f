package cmd

import (
	"context"
	"fmt"

	"clinic-booking/pkg/database"
	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
)

// Context carries what every subcommand needs
type Context struct {
	Config *utils.Config
	Logger *zap.Logger
}

// connect opens the pool and, when asked, brings the schema up to date
func (c *Context) connect(ctx context.Context, migrate bool) (database.PgxIface, error) {
	db, err := database.InitDB(ctx, c.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.Logger.Info("Database connected successfully")

	if migrate {
		applied, err := database.NewMigrator(db, database.Migrations(), c.Logger).Up(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		c.Logger.Info("Schema up to date", zap.Int("applied", applied))
	}

	return db, nil
}
