package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// NewResponsesCommand creates the responses command.
func NewResponsesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "responses <form-id>",
		Short:         "List responses submitted to a form",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, logger, err := rootOpts.openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, logger)

			formID := args[0]
			list := a.Responses().ForForm(formID)
			form, known := a.Builder().SavedForm(formID)

			return rootOpts.formatter(cmd).Print(list, func(w io.Writer) {
				if len(list) == 0 {
					fmt.Fprintf(w, "No responses for %s.\n", formID)
					return
				}
				for _, r := range list {
					fmt.Fprintf(w, "%s  %s\n", r.ID, r.SubmittedAt.Format(time.RFC3339))
					keys := make([]string, 0, len(r.Responses))
					for k := range r.Responses {
						keys = append(keys, k)
					}
					sort.Strings(keys)
					for _, k := range keys {
						label := k
						if known {
							if f, ok := form.Field(k); ok {
								label = f.Label
							}
						}
						fmt.Fprintf(w, "  %s: %v\n", label, r.Responses[k])
					}
				}
			})
		},
	}
}
