package cmd

import (
	"context"

	"clinic-booking/internal/data/repository"
	"clinic-booking/internal/usecase"

	"go.uber.org/zap"
)

// CreateAdminCmd seeds an administrator account
type CreateAdminCmd struct {
	Email     string `help:"Admin e-mail address." required:""`
	Password  string `help:"Admin password, at least 6 characters." required:""`
	FirstName string `help:"First name." default:"Clinic"`
	LastName  string `help:"Last name." default:"Admin"`
	Migrate   bool   `help:"Apply pending migrations first."`
}

func (c *CreateAdminCmd) Run(app *Context) error {
	ctx := context.Background()

	db, err := app.connect(ctx, c.Migrate)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := repository.NewRepository(db, app.Logger)
	user, err := usecase.CreateAdmin(ctx, repos.User, c.FirstName, c.LastName, c.Email, c.Password)
	if err != nil {
		return err
	}

	app.Logger.Info("Admin created", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
	return nil
}
