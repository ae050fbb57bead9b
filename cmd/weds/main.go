package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/text/message"

	"wedding-rsvp/internal/api"
	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/i18n"
	"wedding-rsvp/internal/notify"
	"wedding-rsvp/internal/session"
	"wedding-rsvp/internal/storage"
	"wedding-rsvp/internal/telemetry"
)

// app carries what every command needs. It is filled in by the root
// command's pre-run hook.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    storage.Store
	session  *session.Session
	lock     *session.Lock
	client   *api.Client
	center   *notify.Center
	printer  *message.Printer
	shutdown func(context.Context) error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var envFile string

	root := &cobra.Command{
		Use:           "weds",
		Short:         "Wedding RSVP client for guests and admins",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), envFile)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRSVPCmd(a),
		newAdminCmd(a),
		newWhatsAppCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context, envFile string) error {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	a.shutdown, err = telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.OTLPServiceName)
	if err != nil {
		a.log.Warn().Err(err).Msg("Tracing disabled")
	}

	a.store, err = storage.Open(cfg.StateDSN)
	if err != nil {
		return fmt.Errorf("failed to open client state: %w", err)
	}

	a.client = api.New(cfg.API, &http.Client{Timeout: cfg.API.Timeout}, a.log)
	a.session = session.New(a.store, a.client, a.log)
	a.lock = session.NewLock(a.store)
	a.center = notify.NewCenter(os.Stdout, cfg.ToastTTL, a.log)
	a.printer = i18n.Printer(cfg.Lang)
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.log.Warn().Err(err).Msg("Failed to flush traces")
		}
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
