package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"wedding-rsvp/internal/admin"
	"wedding-rsvp/internal/api"
	"wedding-rsvp/internal/clipboard"
	"wedding-rsvp/internal/models"
)

// dashboard builds an authorized dashboard. yes skips confirmations.
func (a *app) dashboard(ctx context.Context, yes bool) (*admin.Dashboard, error) {
	d := admin.NewDashboard(a.client.Admin(a.session), a.session, a.center, a.cfg.SiteOrigin, a.log).
		WithClipboard(clipboard.System{})
	if yes {
		d.WithConfirmer(admin.ConfirmFunc(func(string) bool { return true }))
	} else {
		d.WithConfirmer(newPrompter(os.Stdin, os.Stdout))
	}

	if err := d.Bootstrap(ctx); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Run `weds login` first.")
		}
		return nil, err
	}
	return d, nil
}

func findGuest(d *admin.Dashboard, id string) (models.Invitee, error) {
	for _, g := range d.Invitees() {
		if g.ID == id || (g.GuestCode != "" && g.GuestCode == id) {
			return g, nil
		}
	}
	return models.Invitee{}, fmt.Errorf("guest %q: %w", id, api.ErrNotFound)
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage guests, RSVPs and settings",
	}
	cmd.AddCommand(
		newGuestsCmd(a),
		newInviteCmd(a),
		newLinkCmd(a),
		newDeleteGuestCmd(a),
		newRSVPsCmd(a),
		newShowCmd(a),
		newApprovalCmd(a, "approve", models.ApprovalApproved),
		newApprovalCmd(a, "unapprove", models.ApprovalPendingReview),
		newEditCmd(a),
		newDeleteRSVPCmd(a),
		newTurnoutCmd(a),
		newSettingsCmd(a),
	)
	return cmd
}

func newGuestsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "guests",
		Short: "List invitees",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dashboard(cmd.Context(), false)
			if err != nil {
				return err
			}
			// counts for the summary cards; failures are already reported
			_ = d.ReloadRSVPs(cmd.Context())
			_ = d.ReloadTurnout(cmd.Context())
			printTotals(os.Stdout, d.Totals())
			printInvitees(os.Stdout, d.Invitees())
			return nil
		},
	}
}

func newInviteCmd(a *app) *cobra.Command {
	var (
		first, last, phone string
		size               int
		force, qr          bool
	)
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Create an invitee and copy the invite link",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := a.dashboard(ctx, false)
			if err != nil {
				return err
			}
			res, err := d.InviteNewGuest(ctx, first, last, size, force)
			if err != nil {
				return err
			}
			if qr && res.Link != "" {
				printQR(res.Link)
			}
			if phone == "" || res.Link == "" {
				return nil
			}

			wa, err := a.whatsapp(ctx)
			if err != nil {
				a.center.Error("WhatsApp unavailable: " + err.Error())
				return nil
			}
			defer wa.Disconnect()
			// the invite exists already; a delivery failure is only reported
			_ = d.WithMessenger(wa).DeliverInvite(ctx, phone, first, res.Link)
			return nil
		},
	}
	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	cmd.Flags().IntVar(&size, "size", 1, "allowed party size")
	cmd.Flags().BoolVar(&force, "force", false, "allow a duplicate name")
	cmd.Flags().StringVar(&phone, "phone", "", "also send the link over WhatsApp")
	cmd.Flags().BoolVar(&qr, "qr", false, "print the link as a QR code")
	return cmd
}

func printQR(link string) {
	q, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return
	}
	fmt.Println(q.ToSmallString(false))
}

func newLinkCmd(a *app) *cobra.Command {
	var code bool
	cmd := &cobra.Command{
		Use:   "link <guest-id>",
		Short: "Copy a guest's invite link and show it as a QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dashboard(cmd.Context(), false)
			if err != nil {
				return err
			}
			guest, err := findGuest(d, args[0])
			if err != nil {
				return err
			}
			if code {
				_, err := d.CopyInviteCode(guest)
				return err
			}
			link, err := d.ShareInviteLink(guest)
			if err != nil {
				return err
			}
			printQR(link)
			return nil
		},
	}
	cmd.Flags().BoolVar(&code, "code", false, "copy the guest code instead of the link")
	return cmd
}

func newDeleteGuestCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-guest <guest-id>",
		Short: "Delete an invitee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dashboard(cmd.Context(), yes)
			if err != nil {
				return err
			}
			guest, err := findGuest(d, args[0])
			if err != nil {
				return err
			}
			err = d.DeleteInvitee(cmd.Context(), guest)
			if errors.Is(err, admin.ErrNotConfirmed) {
				fmt.Println("Cancelled.")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newRSVPsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rsvps",
		Short: "List RSVPs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dashboard(cmd.Context(), false)
			if err != nil {
				return err
			}
			if err := d.SwitchView(cmd.Context(), admin.ViewRSVPs); err != nil {
				return err
			}
			printRSVPs(os.Stdout, d.RSVPs())
			return nil
		},
	}
}

// openReview loads one RSVP into the RSVP view
func (a *app) openReview(ctx context.Context, id string, yes bool) (*admin.Dashboard, *admin.Review, error) {
	d, err := a.dashboard(ctx, yes)
	if err != nil {
		return nil, nil, err
	}
	// a failed list fetch is reported and does not block the detail
	_ = d.SwitchView(ctx, admin.ViewRSVPs)
	r, err := d.OpenRSVP(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return d, r, nil
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <rsvp-id>",
		Short: "Show one RSVP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := a.openReview(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			rec, _ := r.Record()
			printRSVP(os.Stdout, rec)
			return nil
		},
	}
}

func newApprovalCmd(a *app, use string, status models.ApprovalStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <rsvp-id>",
		Short: "Set the approval status to " + status.Label(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, r, err := a.openReview(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			return r.SetApproval(cmd.Context(), status)
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var (
		status, email, phone, msg           string
		line1, line2, city, state, postcode string
	)
	cmd := &cobra.Command{
		Use:   "edit <rsvp-id>",
		Short: "Edit an RSVP's status, contact details, address or message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, r, err := a.openReview(ctx, args[0], false)
			if err != nil {
				return err
			}
			if err := r.BeginEdit(); err != nil {
				return err
			}

			changed := cmd.Flags().Changed
			if changed("status") {
				if err := r.SetStatus(models.ParseRSVPStatus(status)); err != nil {
					return err
				}
			}
			err = r.UpdateDraft(func(d *models.RSVP) {
				set := func(flag string, dst **string, v string) {
					if changed(flag) {
						*dst = models.NullString(v)
					}
				}
				set("email", &d.Email, email)
				set("phone", &d.Phone, phone)
				set("message", &d.Message, msg)
				if d.Address == nil {
					d.Address = &models.Address{}
				}
				set("line1", &d.Address.Line1, line1)
				set("line2", &d.Address.Line2, line2)
				set("city", &d.Address.City, city)
				set("state", &d.Address.State, state)
				set("postal-code", &d.Address.PostalCode, postcode)
			})
			if err != nil {
				return err
			}
			if err := r.Save(ctx); err != nil {
				return err
			}
			rec, _ := r.Record()
			printRSVP(os.Stdout, rec)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Accepted or Declined")
	f.StringVar(&email, "email", "", "email address")
	f.StringVar(&phone, "phone", "", "phone number")
	f.StringVar(&msg, "message", "", "message to the couple")
	f.StringVar(&line1, "line1", "", "address line 1")
	f.StringVar(&line2, "line2", "", "address line 2")
	f.StringVar(&city, "city", "", "city")
	f.StringVar(&state, "state", "", "state")
	f.StringVar(&postcode, "postal-code", "", "postal code")
	return cmd
}

func newDeleteRSVPCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-rsvp <rsvp-id>",
		Short: "Delete an RSVP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dashboard(cmd.Context(), yes)
			if err != nil {
				return err
			}
			_ = d.SwitchView(cmd.Context(), admin.ViewRSVPs)
			err = d.DeleteRSVP(cmd.Context(), args[0])
			if errors.Is(err, admin.ErrNotConfirmed) {
				fmt.Println("Cancelled.")
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newTurnoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "turnout",
		Short: "Show the expected turnout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.dashboard(cmd.Context(), false)
			if err != nil {
				return err
			}
			if err := d.SwitchView(cmd.Context(), admin.ViewExpected); err != nil {
				return err
			}
			printTurnout(os.Stdout, d.Turnout())
			return nil
		},
	}
}

func newSettingsCmd(a *app) *cobra.Command {
	var closed, strangers bool
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the RSVP settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			d, err := a.dashboard(ctx, false)
			if err != nil {
				return err
			}
			if err := d.SwitchView(ctx, admin.ViewSettings); err != nil {
				return err
			}

			s := d.Settings()
			changed := cmd.Flags().Changed
			if changed("closed") || changed("strangers") {
				if changed("closed") {
					s.RSVPClosed = closed
				}
				if changed("strangers") {
					s.RSVPOpenToStrangers = strangers
				}
				if err := d.SaveSettings(ctx, s); err != nil {
					return err
				}
			}
			printSettings(os.Stdout, d.Settings())
			return nil
		},
	}
	cmd.Flags().BoolVar(&closed, "closed", false, "close RSVPs")
	cmd.Flags().BoolVar(&strangers, "strangers", true, "accept RSVPs without an invite")
	return cmd
}
