package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// cli holds the parsed global flags and the environment the root command
// sets up before any subcommand runs.
type cli struct {
	configPath string
	debug      bool

	env *env
}

// run executes the command line args and releases what the command
// opened.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	c := &cli{}
	defer c.close()

	rootCmd := c.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)

	return rootCmd.ExecuteContext(ctx)
}

// rootCmd builds the command tree.
func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tankmate",
		Short: "Check which Megaquarium animals can share a tank",
		Long: `Tankmate reads the installed game's data and checks sets of animals
against each other: the minimum tank they need, the food they eat, and
every rule they break together.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(c.configPath, c.debug)
			if err != nil {
				return err
			}
			c.env = e
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		c.lookupCmd(),
		c.listCmd(),
		c.extractCmd(),
		c.checkCmd(),
		c.validateCmd(),
		c.expandCmd(),
		c.historyCmd(),
		c.browseCmd(),
		c.configCmd(),
	)

	return rootCmd
}

// close releases the environment.
func (c *cli) close() {
	if c.env != nil {
		c.env.close()
		c.env = nil
	}
}
