package main

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-sigscan/config"
)

func (a *app) newConfigCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `config prints the default configuration, or the result of applying
--config over the defaults, so it can be saved and edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Default()
			if path != "" {
				var err error
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			out, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "YAML configuration file to merge over the defaults")
	return cmd
}
