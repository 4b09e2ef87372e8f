// main.go
package main

import (
	"log"

	"clinic-booking/cmd"
	"clinic-booking/pkg/utils"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
)

var CLI struct {
	Serve       cmd.ServeCmd       `cmd:"" help:"Run the HTTP API." default:"1"`
	Migrate     cmd.MigrateCmd     `cmd:"" help:"Apply pending database migrations."`
	CreateAdmin cmd.CreateAdminCmd `cmd:"" help:"Create an administrator account."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("clinic-booking"),
		kong.Description("Clinic appointment booking service"),
		kong.UsageOnError(),
	)

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if err := kctx.Run(&cmd.Context{Config: config, Logger: logger}); err != nil {
		logger.Error("Command failed", zap.String("command", kctx.Command()), zap.Error(err))
		logger.Sync()
		log.Fatal(err)
	}
}
