package main

import (
	"github.com/spf13/cobra"

	"github.com/tankmate/tankmate/internal/catalog"
)

func (c *cli) lookupCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "lookup <term>",
		Short: "Show the species and tank models whose id contains term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.env.loadData()
			if err != nil {
				return err
			}

			term := args[0]
			return c.env.printer(cmd, raw).Lookup(term, data.MatchingSpecies(term), data.MatchingTanks(term))
		},
	}

	cmd.Flags().BoolVarP(&raw, "raw", "d", false, "Show raw structures instead of YAML")
	return cmd
}

// listKinds are the catalog sections list can print, with their titles.
var listKinds = map[string]string{
	"animals":  "Animals",
	"tanks":    "Tanks",
	"food":     "Food",
	"fixtures": "Fixtures",
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list animals|tanks|food|fixtures",
		Short:     "List the ids of a catalog section",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"animals", "tanks", "food", "fixtures"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.env.loadData()
			if err != nil {
				return err
			}

			kind := args[0]
			c.env.printer(cmd, false).List(listKinds[kind], catalogIDs(data, kind))
			return nil
		},
	}
}

func catalogIDs(data *catalog.GameData, kind string) []string {
	var ids []string
	switch kind {
	case "animals":
		for _, s := range data.Species {
			ids = append(ids, s.ID)
		}
	case "tanks":
		for _, t := range data.Tanks {
			ids = append(ids, t.ID)
		}
	case "fixtures":
		for _, f := range data.Fixtures {
			ids = append(ids, f.ID)
		}
	case "food":
		ids = append(ids, data.Food...)
	}
	return ids
}

func (c *cli) extractCmd() *cobra.Command {
	var summary, raw bool

	cmd := &cobra.Command{
		Use:   "extract <save>",
		Short: "Print the exhibits of a save as an aquarium description",
		Long: `Extract reads a game save and prints its exhibits as a YAML aquarium
description, ready for validate and expand. A bare name is looked up in
the save directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.env.loadData()
			if err != nil {
				return err
			}

			path, err := c.env.savePath(args[0])
			if err != nil {
				return err
			}
			aq, err := catalog.ReadSave(data, path)
			if err != nil {
				return err
			}

			return c.env.printer(cmd, raw).Aquarium(aq.Describe(summary))
		},
	}

	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "Group animals into per-species counts, dropping growth")
	cmd.Flags().BoolVarP(&raw, "raw", "d", false, "Show raw structures instead of YAML")
	return cmd
}
