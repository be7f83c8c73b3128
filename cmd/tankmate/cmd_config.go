package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tankmate/tankmate/internal/config"
)

func (c *cli) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the configuration in effect and where it was read from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if c.env.cfgPath == "" {
				fmt.Fprintf(w, "# defaults, not saved; would be read from %s\n\n", config.ConfigPath(c.configPath))
			} else {
				fmt.Fprintf(w, "# %s\n\n", c.env.cfgPath)
			}
			return config.Encode(w, c.env.cfg)
		},
	}
}
