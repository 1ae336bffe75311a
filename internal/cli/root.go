package cli

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/meeting-room-scheduler/internal/config"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath string
	store      string
}

// load reads the configuration and applies command line overrides.
func (f *rootFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.store != "" {
		cfg.Store.Backend = f.store
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func NewRoot() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "roomsched",
		Short:         "Weekly meeting-room slot scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "optional YAML config file")
	cmd.PersistentFlags().StringVar(&flags.store, "store", "", "override the store backend (redis, mysql, memory)")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newWeekCmd(flags))
	cmd.AddCommand(newAuditCmd(flags))
	return cmd
}
