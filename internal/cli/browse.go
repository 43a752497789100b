package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mwolf/schemascope/pkg/schema"
)

// browseCommand creates the browse command for interactive focus selection.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "browse [schema.json]",
		Short: "Pick an object interactively and compute its focus layout",
		Long: `Pick an object interactively and compute its focus layout.

Lists every object in the schema graph. Selecting a table or view runs
the same focus layout as 'layout --focus <id>': referenced objects to the
left, referencing objects to the right, triggers next to the focused
table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			g, err := schema.ReadGraphFile(input)
			if err != nil {
				return fmt.Errorf("load schema %s: %w", input, err)
			}
			g.Normalize()

			model := NewObjectListModel(g)
			res, err := tea.NewProgram(model).Run()
			if err != nil {
				return fmt.Errorf("run picker: %w", err)
			}

			final, ok := res.(ObjectListModel)
			if !ok || final.Selected == nil {
				printInfo("Nothing selected")
				return nil
			}

			lf.focus = final.Selected.ID
			return c.runLayout(cmd.Context(), input, lf, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	c.registerLayoutFlags(cmd, &lf)

	return cmd
}
