package main

import (
	"github.com/spf13/cobra"

	"github.com/tankmate/tankmate/internal/models"
	"github.com/tankmate/tankmate/internal/services/aquarium"
)

// speciesCounts parses species=count arguments.
func speciesCounts(args []string) ([]models.SpeciesCount, error) {
	counts, err := aquarium.ParseSpeciesCounts(args)
	if err != nil {
		return nil, &usageError{err: err}
	}
	return counts, nil
}

func (c *cli) checkCmd() *cobra.Command {
	var raw, assumeGrown bool

	cmd := &cobra.Command{
		Use:   "check species=count...",
		Short: "Print the minimum viable tank for a set of animals",
		Long: `Check resolves each species search term, derives the minimum tank the
animals need and lists every rule they break together, e.g.

  tankmate check clownfish=3 anemone=2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := speciesCounts(args)
			if err != nil {
				return err
			}

			if assumeGrown {
				c.env.cfg.Check.AssumeFullyGrown = true
			}
			svc, err := c.env.service(cmd.Context(), false)
			if err != nil {
				return err
			}

			query, result, err := svc.Check(cmd.Context(), counts)
			if err != nil {
				return err
			}
			return c.env.printer(cmd, raw).CheckResult(query, result)
		},
	}

	cmd.Flags().BoolVarP(&raw, "raw", "d", false, "Show raw structures instead of YAML")
	cmd.Flags().BoolVar(&assumeGrown, "assume-fully-grown", false, "Consider all animals fully grown for predation")
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	var raw bool
	var save string

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate every exhibit of an aquarium",
		Long: `Validate checks each occupied exhibit of an aquarium description against
its real tank and fixtures. The description is read from file, or from
stdin when no file is given; --save reads a game save instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.env.service(cmd.Context(), false)
			if err != nil {
				return err
			}

			aq, subject, err := c.env.loadAquarium(cmd, svc, firstArg(args), save)
			if err != nil {
				return err
			}

			result, err := svc.Validate(cmd.Context(), subject, aq)
			if err != nil {
				return err
			}
			return c.env.printer(cmd, raw).AquariumResult(result)
		},
	}

	cmd.Flags().BoolVarP(&raw, "raw", "d", false, "Show raw structures instead of YAML")
	cmd.Flags().StringVar(&save, "save", "", "Read the aquarium from a game save")
	return cmd
}

func (c *cli) expandCmd() *cobra.Command {
	var all bool
	var file, save string

	cmd := &cobra.Command{
		Use:   "expand species=count...",
		Short: "List the exhibits that could take more animals",
		Long: `Expand checks whether the counted animals could be added to each exhibit
of an aquarium, and what each exhibit would have to grow. The aquarium
is read from --aquarium, from --save, or from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := speciesCounts(args)
			if err != nil {
				return err
			}

			svc, err := c.env.service(cmd.Context(), false)
			if err != nil {
				return err
			}

			aq, subject, err := c.env.loadAquarium(cmd, svc, file, save)
			if err != nil {
				return err
			}

			result, err := svc.Expand(cmd.Context(), subject, aq, counts)
			if err != nil {
				return err
			}
			return c.env.printer(cmd, false).Expansion(result, all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Also show exhibits that cannot take the animals")
	cmd.Flags().StringVar(&file, "aquarium", "", "Aquarium description file")
	cmd.Flags().StringVar(&save, "save", "", "Read the aquarium from a game save")
	cmd.MarkFlagsMutuallyExclusive("aquarium", "save")
	return cmd
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
