package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kingrea/peerreview/internal/rubric"
)

func newRubricCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rubric",
		Short: "Inspect and validate grading rubrics",
	}
	cmd.AddCommand(newRubricShowCmd(c), newRubricListCmd(c), newRubricValidateCmd(c))
	return cmd
}

type rubricShowFlags struct {
	file    string
	builtin string
}

func newRubricShowCmd(c *cli) *cobra.Command {
	f := &rubricShowFlags{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active rubric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRubricShow(c, f)
		},
	}
	cmd.Flags().StringVar(&f.file, "file", "", "Show this rubric file instead of the configured one")
	cmd.Flags().StringVar(&f.builtin, "builtin", "", "Show a builtin rubric by name")
	return cmd
}

func runRubricShow(c *cli, f *rubricShowFlags) error {
	var (
		catalog rubric.Catalog
		err     error
	)
	switch {
	case f.file != "" || f.builtin != "":
		catalog, err = rubric.Resolve(f.builtin, f.file)
	default:
		cfg, cerr := c.loadConfig()
		if cerr != nil {
			return cerr
		}
		catalog, err = cfg.Catalog()
	}
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}

	if catalog.Title != "" {
		c.ui.Info("%s (%s)", catalog.Title, catalog.Name)
	} else {
		c.ui.Info("%s", catalog.Name)
	}
	table := c.ui.Table([]string{"ID", "Category", "Weight", "Description"})
	for _, crit := range catalog.Criteria {
		_ = table.Append([]string{crit.ID, crit.Category, formatWeight(crit.Weight), crit.Description})
	}
	if err := table.Render(); err != nil {
		return err
	}
	c.ui.VerboseLog("Scores run %d to %d; weights sum to %s", rubric.MinScore, rubric.MaxScore, formatWeight(catalog.SumWeights()))
	return nil
}

func newRubricListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List builtin rubrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := c.ui.Table([]string{"Name", "Title", "Criteria"})
			for _, name := range rubric.BuiltinNames() {
				catalog, err := rubric.Builtin(name)
				if err != nil {
					c.ui.Warning("%s: %v", name, err)
					continue
				}
				_ = table.Append([]string{name, catalog.Title, strconv.Itoa(catalog.Len())})
			}
			return table.Render()
		},
	}
}

func newRubricValidateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <rubric-file>",
		Short: "Check a rubric file: unique ids, positive weights summing to 100",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := rubric.Load(args[0])
			if err != nil {
				c.ui.Error("%v", err)
				return exitError(exitConfig, "rubric %s is invalid", args[0])
			}
			c.ui.Success("%s: %d criteria, weights sum to %s", args[0], catalog.Len(), formatWeight(catalog.SumWeights()))
			return nil
		},
	}
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
