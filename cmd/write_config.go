package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/tranvictor/ensgraph/config"
	"github.com/tranvictor/ensgraph/ui"
)

var writeConfigForce bool

// writeConfig writes the defaults to path, asking before it overwrites an
// existing file unless force is set.
func writeConfig(u ui.UI, path string, force bool) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if !force && !u.Confirm(path+" already exists, overwrite it?", false) {
			u.Info("Config left untouched")
			return nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	if err := config.Default().Write(path); err != nil {
		return err
	}
	u.Success("Wrote default config to %s", path)
	return nil
}

var writeConfigCmd = &cobra.Command{
	Use:   "write-config",
	Short: "Write the default config file",
	Long: `Write every option with its default value to the config file (see --config)
so it can be edited. Secrets like the Supabase key are better kept in env
vars.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeConfig(appUI, config.ConfigPath, writeConfigForce)
	},
}

func init() {
	writeConfigCmd.Flags().BoolVarP(&writeConfigForce, "force", "f", false, "overwrite an existing file without asking")
	rootCmd.AddCommand(writeConfigCmd)
}
