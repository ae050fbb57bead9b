package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/whatsapp"
)

func (a *app) whatsapp(ctx context.Context) (*whatsapp.Service, error) {
	return whatsapp.NewService(ctx, whatsapp.Config{
		DataDir:   a.cfg.WhatsApp.DataDir,
		Date:      a.cfg.Wedding.Date,
		Location:  a.cfg.Wedding.Location,
		BrideName: a.cfg.Wedding.BrideName,
		GroomName: a.cfg.Wedding.GroomName,
	}, a.log)
}

func newWhatsAppCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Manage the WhatsApp device used for invite delivery",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "pair",
		Short: "Link this client to a WhatsApp account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wa, err := a.whatsapp(cmd.Context())
			if err != nil {
				return err
			}
			defer wa.Disconnect()
			if err := wa.Pair(cmd.Context(), os.Stdout); err != nil {
				return err
			}
			a.center.Success("WhatsApp device linked")
			return nil
		},
	})
	return cmd
}
