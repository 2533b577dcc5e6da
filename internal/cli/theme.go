package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/formkit/internal/model"
)

// ThemeResult is the JSON payload of the theme command.
type ThemeResult struct {
	Theme model.Theme `json:"theme"`
}

// NewThemeCommand creates the theme command. With no argument it prints
// the persisted theme; with one it sets it.
func NewThemeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "theme [light|dark]",
		Short:         "Show or set the color theme",
		Args:          cobra.MaximumNArgs(1),
		ValidArgs:     []string{string(model.ThemeLight), string(model.ThemeDark)},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var theme model.Theme
			if len(args) == 1 {
				t, err := model.ParseTheme(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid theme", err)
				}
				theme = t
			}

			a, logger, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, logger)

			if theme != "" {
				a.Builder().SetTheme(theme)
			}
			result := ThemeResult{Theme: a.Builder().Theme()}
			return rootOpts.formatter(cmd).Print(result, func(w io.Writer) {
				fmt.Fprintln(w, result.Theme)
			})
		},
	}
}
