package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OCharnyshevich/paimon/pkg/gamedata"
)

func newShowCmd(a *app) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "List generated characters, or show one by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gd, err := gamedata.Load(source, a.cfg.OutputPath)
			if err != nil {
				return err
			}
			chars := gd.Characters.All()
			if len(args) == 1 {
				c, ok := gd.Characters.ByName(args[0])
				if !ok {
					return fmt.Errorf("no character named %q", args[0])
				}
				chars = []gamedata.Character{c}
			}
			return printCharacters(cmd.OutOrStdout(), chars)
		},
	}
	cmd.Flags().StringVarP(&a.cfg.OutputPath, "output", "o", a.cfg.OutputPath, "character database JSON file")
	cmd.Flags().StringVar(&source, "source", "json", "database source format")
	return cmd
}

func printCharacters(w io.Writer, chars []gamedata.Character) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRARITY\tELEMENT\tWEAPON")
	for _, c := range chars {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Rarity, c.Element, c.Weapon)
	}
	return tw.Flush()
}
