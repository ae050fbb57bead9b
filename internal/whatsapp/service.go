// Package whatsapp delivers invite links through a linked WhatsApp device.
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

var (
	ErrNotPaired     = errors.New("no linked WhatsApp device, run `weds whatsapp pair` first")
	ErrNotOnWhatsApp = errors.New("number is not registered on WhatsApp")
)

type Config struct {
	DataDir   string
	Date      string
	Location  string
	BrideName string
	GroomName string
}

type Service struct {
	client *whatsmeow.Client
	cfg    Config
	log    zerolog.Logger
}

// NewService opens the device store under cfg.DataDir
func NewService(ctx context.Context, cfg Config, log zerolog.Logger) (*Service, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(cfg.DataDir, "whatsmeow.db"))
	// Use nil logger - sqlstore will use a no-op logger by default
	container, err := sqlstore.New(ctx, "sqlite3", dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	service := &Service{
		client: whatsmeow.NewClient(deviceStore, nil),
		cfg:    cfg,
		log:    log.With().Str("component", "whatsapp").Logger(),
	}
	service.client.AddEventHandler(service.eventHandler)
	return service, nil
}

// NormalizePhoneNumber strips formatting and converts local Israeli
// numbers (05XXXXXXXX) to 9725XXXXXXXX.
func NormalizePhoneNumber(phoneNumber string) string {
	phoneNumber = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)

	if strings.HasPrefix(phoneNumber, "0") && len(phoneNumber) == 10 {
		phoneNumber = "972" + phoneNumber[1:]
	}
	// 9720... is a country code followed by the trunk prefix
	if strings.HasPrefix(phoneNumber, "9720") {
		phoneNumber = "972" + phoneNumber[4:]
	}
	return phoneNumber
}

// Paired reports whether a device is linked
func (s *Service) Paired() bool {
	return s.client.Store.ID != nil
}

// Pair links a new device, writing QR codes to out until the phone scans
// one or ctx ends.
func (s *Service) Pair(ctx context.Context, out io.Writer) error {
	if s.Paired() {
		fmt.Fprintln(out, "A device is already linked.")
		return nil
	}

	qrChan, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to get QR channel: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			q, err := qrcode.New(evt.Code, qrcode.Medium)
			if err != nil {
				fmt.Fprintf(out, "QR Code: %s\n", evt.Code)
				continue
			}
			fmt.Fprintln(out, "\n"+q.ToSmallString(false))
			fmt.Fprintln(out, "📱 Scan the QR code above: WhatsApp > Settings > Linked Devices > Link a Device")
		case "success":
			s.log.Info().Msg("Device linked")
			return nil
		default:
			s.log.Info().Str("event", evt.Event).Msg("Pairing event")
		}
	}
	if !s.Paired() {
		return fmt.Errorf("pairing did not complete")
	}
	return nil
}

// Connect connects a linked device
func (s *Service) Connect() error {
	if !s.Paired() {
		return ErrNotPaired
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	return nil
}

func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// InvitationText renders the invite message for one guest
func InvitationText(cfg Config, name, link string) string {
	return fmt.Sprintf(
		"🎉 *Wedding Invitation*\n\n"+
			"Dear %s,\n\n"+
			"You are cordially invited to celebrate the wedding of\n\n"+
			"*%s* & *%s*\n\n"+
			"📅 Date: %s\n"+
			"📍 Location: %s\n\n"+
			"Please RSVP here:\n%s",
		name, cfg.BrideName, cfg.GroomName, cfg.Date, cfg.Location, link,
	)
}

// SendInvitation sends the RSVP link to phoneNumber. The number has to be
// registered on WhatsApp.
func (s *Service) SendInvitation(ctx context.Context, phoneNumber, name, link string) error {
	if !s.client.IsConnected() {
		if err := s.Connect(); err != nil {
			return err
		}
	}
	return s.SendMessage(ctx, phoneNumber, InvitationText(s.cfg, name, link))
}

// SendMessage sends a plain text message
func (s *Service) SendMessage(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = NormalizePhoneNumber(phoneNumber)

	resp, err := s.client.IsOnWhatsApp(ctx, []string{phoneNumber})
	if err != nil {
		return fmt.Errorf("failed to verify number on WhatsApp: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("%s: %w", phoneNumber, ErrNotOnWhatsApp)
	}
	jid := resp[0].JID
	if jid.IsEmpty() {
		jid = types.NewJID(phoneNumber, types.DefaultUserServer)
	}

	s.log.Debug().Str("jid", jid.String()).Str("phone", phoneNumber).Msg("Attempting to send message")
	sent, err := s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", jid.String(), err)
	}
	s.log.Info().Str("id", string(sent.ID)).Time("timestamp", sent.Timestamp).Msg("Message sent")
	return nil
}

func (s *Service) eventHandler(evt any) {
	switch evt := evt.(type) {
	case *events.Message:
		if evt.Info.IsFromMe {
			return
		}
		s.log.Info().
			Str("sender", evt.Info.Sender.String()).
			Str("message", evt.Message.GetConversation()).
			Msg("Received message")
	case *events.Connected:
		s.log.Info().Msg("Connected to WhatsApp")
	case *events.Disconnected:
		s.log.Info().Msg("Disconnected from WhatsApp")
	case *events.LoggedOut:
		s.log.Info().Msg("Logged out from WhatsApp")
	}
}
