package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beatcut/pkg/config"
	"github.com/matzehuels/beatcut/pkg/layer"
)

// catalogCommand creates the catalog command.
func (c *CLI) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [config]",
		Short: "Show the sample layers drawn by random-layer",
		Long: `Show the sample layer catalog used to expand random-layer.

Without an argument the built-in catalog is shown. With a config file its
sample_layers are shown instead, if it sets any.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeConfigFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := layer.DefaultCatalog()
			source := "built-in"
			if len(args) == 1 {
				cfg, err := config.ReadFile(args[0])
				if err != nil {
					return err
				}
				if cat, err = cfg.Catalog(); err != nil {
					return err
				}
				if len(cfg.SampleLayers) > 0 {
					source = args[0]
				}
			}

			fmt.Fprintln(uiOut, StyleTitle.Render("Sample layers")+" "+StyleDim.Render("("+source+")"))
			fmt.Fprintln(uiOut, renderCatalog(cat))
			printDetail("%d entries, each drawn with probability 1/%d", cat.Len(), max(cat.Len(), 1))
			return nil
		},
	}
}

// renderCatalog draws the catalog as a table with one row per entry.
func renderCatalog(cat *layer.Catalog) string {
	rows := make([][]string, 0, cat.Len())
	for i, entry := range cat.Entries() {
		types := make([]string, len(entry))
		random := 0
		for j, l := range entry {
			types[j] = l.Type()
			if isRandom(l) {
				random++
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			strings.Join(types, " + "),
			fmt.Sprintf("%d", random),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Layers (bottom to top)", "Random").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if col == 1 {
				return StyleValue.Padding(0, 1)
			}
			return StyleNumber.Padding(0, 1)
		})
	return t.Render()
}

// isRandom reports whether compiling l involves a random choice.
func isRandom(l layer.Layer) bool {
	switch layer.Classify(l.Type()) {
	case layer.KindRandomLayer, layer.KindRandomPhoto, layer.KindGradient:
		return true
	}
	p, _ := l.Path()
	return p == layer.RandomSentinel
}
