package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/abhisek/quizapp/internal/app"
	"github.com/abhisek/quizapp/internal/catalog"
	"github.com/abhisek/quizapp/internal/screen"
)

// errNotTerminal is returned when the TUI is started without a terminal.
var errNotTerminal = errors.New("quizapp needs an interactive terminal; try `quizapp ask`")

// catalogDefault is the built-in question pack.
func catalogDefault() *catalog.Catalog {
	return catalog.Default()
}

// runApp opens the store, builds the screen environment, and launches the
// TUI. A non-zero category opens that quiz directly.
func runApp(cmd *cobra.Command, category int) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	st, settings, cfgPath, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	env := &screen.Env{
		Questions:  st.Questions(),
		Attempts:   st.Attempts(),
		Catalog:    catalogDefault(),
		Settings:   settings,
		ConfigPath: cfgPath,
	}
	return app.Run(app.Options{Env: env, Category: category})
}
