package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OCharnyshevich/paimon/pkg/gamedata"
)

var categoryTitles = map[string]string{
	gamedata.CategoryBasic:     "Basic Stats",
	gamedata.CategoryAdvanced:  "Advanced Stats",
	gamedata.CategoryElemental: "Elemental Type",
	gamedata.CategoryHidden:    "Hidden Stats",
}

func newAttributesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "attributes",
		Short: "Print the character attribute taxonomy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := gamedata.Attributes()
			if err != nil {
				return err
			}
			return printAttributes(cmd.OutOrStdout(), reg)
		},
	}
}

func printAttributes(w io.Writer, reg gamedata.AttributeRegistry) error {
	for i, cat := range gamedata.Categories {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n", categoryTitles[cat]); err != nil {
			return err
		}
		for _, a := range reg.ByCategory(cat) {
			if _, err := fmt.Fprintf(w, "  - %s\n", a.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
