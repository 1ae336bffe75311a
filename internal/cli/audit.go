package cli

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/meeting-room-scheduler/internal/logger"
	"github.com/iliyamo/meeting-room-scheduler/internal/queue"
)

func newAuditCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Append reservation events from the broker to the audit log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if cfg.Audit.URL == "" {
				return errors.New("audit.url (ROOM_AUDIT__URL) is not set")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := queue.NewAuditConsumer(cfg.Audit.URL, cfg.Audit.Queue, cfg.Audit.Path, logger.New("audit-consumer"))
			if err := c.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}
