package cmd

import "context"

// MigrateCmd applies pending schema migrations and exits
type MigrateCmd struct{}

func (c *MigrateCmd) Run(app *Context) error {
	db, err := app.connect(context.Background(), true)
	if err != nil {
		return err
	}
	db.Close()
	return nil
}
