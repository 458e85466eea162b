package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/commitview/internal/config"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		c := initContext(cmd, os.Stderr)
		data, err := toml.Marshal(c.Config)
		if err != nil {
			exitError("%v", err)
		}
		fmt.Printf("# %s\n%s", c.Config.Path(), data)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		c := initContext(cmd, os.Stderr)
		if err := writeConfig(c.Config, configInitForce); err != nil {
			exitError("%v", err)
		}
		fmt.Printf("Wrote %s\n", c.Config.Path())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
}

func writeConfig(cfg *config.Config, force bool) error {
	if !force {
		if _, err := os.Stat(cfg.Path()); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Path())
		}
	}
	return cfg.Save()
}
