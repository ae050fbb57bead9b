package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wedding-rsvp/internal/models"
	"wedding-rsvp/internal/rsvp"
)

func newRSVPCmd(a *app) *cobra.Command {
	var token, code string

	cmd := &cobra.Command{
		Use:   "rsvp",
		Short: "Fill in and submit an RSVP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := newPrompter(os.Stdin, os.Stdout)
			flow := rsvp.NewFlow(a.client, a.lock, a.cfg.StrangerParty, a.center, a.printer, a.log)
			submitter := rsvp.NewSubmitter(a.client, a.lock, a.center, a.printer, a.log)

			form := flow.Load(ctx, token)
			if code != "" {
				_ = flow.EnterCode(ctx, form, code)
			}

			for form.Mode() == rsvp.ModeInviteRequired {
				answer, ok := p.ask("Invite code: ")
				if !ok {
					return rsvp.ErrInviteRequired
				}
				_ = flow.EnterCode(ctx, form, answer)
			}
			if err := form.CanSubmit(); err != nil {
				// closed or already submitted; Submit reports why
				return submitter.Submit(ctx, form)
			}

			fillForm(p, form)
			for {
				err := submitter.Submit(ctx, form)
				if err == nil {
					return nil
				}
				if errors.Is(err, rsvp.ErrNameRequired) {
					form.FirstName = p.askDefault("First name: ", form.FirstName)
					form.LastName = p.askDefault("Last name: ", form.LastName)
					continue
				}
				if !p.Confirm("Try again?") {
					return err
				}
			}
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "invite token from the RSVP link")
	cmd.Flags().StringVar(&code, "code", "", "invite code entered by hand")

	cmd.AddCommand(&cobra.Command{
		Use:   "unlock",
		Short: "Forget that an RSVP was submitted from this machine",
		RunE: func(*cobra.Command, []string) error {
			if err := a.lock.Release(); err != nil {
				return err
			}
			a.center.Info("RSVP lock released")
			return nil
		},
	})
	return cmd
}

func fillForm(p *prompter, form *rsvp.Form) {
	form.FirstName = p.askDefault("First name: ", form.FirstName)
	form.LastName = p.askDefault("Last name: ", form.LastName)

	answer := p.askDefault("Will you attend? (yes/no): ", "yes")
	if strings.HasPrefix(strings.ToLower(answer), "n") {
		_ = form.SetAttendance(models.RSVPDeclined)
	}

	form.Phone, _ = p.ask("Phone (optional): ")
	form.Email, _ = p.ask("Email (optional): ")
	form.Address.Line1, _ = p.ask("Address line 1 (optional): ")
	if form.Address.Line1 != "" {
		form.Address.Line2, _ = p.ask("Address line 2: ")
		form.Address.City, _ = p.ask("City: ")
		form.Address.State, _ = p.ask("State: ")
		form.Address.PostalCode, _ = p.ask("Postal code: ")
	}

	if form.Attendance() == models.RSVPAccepted {
		fillGuests(p, form)
		form.SpecialAccommodations, _ = p.ask("Special accommodations (optional): ")
	}
	form.Notes, _ = p.ask("Note to the couple (optional): ")
}

// fillGuests asks for companions until the guest says no or the cap is
// reached. A party of one is never asked.
func fillGuests(p *prompter, form *rsvp.Form) {
	for {
		if limit, ok := form.MaxAdditional(); ok && len(form.Guests()) >= limit {
			if limit > 0 {
				fmt.Fprintln(p.out, form.GuestsLimit())
			}
			return
		}
		if limit := form.GuestsLimit(); limit != "" {
			fmt.Fprintln(p.out, limit)
		}
		if !p.Confirm("Add an additional guest?") {
			return
		}
		if err := form.AddGuest(); err != nil {
			// the cap was reported as a notification
			return
		}
		i := len(form.Guests()) - 1
		var g models.AdditionalGuest
		g.FirstName, _ = p.ask("  Guest first name: ")
		g.LastName, _ = p.ask("  Guest last name: ")
		special, _ := p.ask("  Special accommodations (optional): ")
		g.SpecialAccommodations = models.NullString(special)
		_ = form.UpdateGuest(i, g)
	}
}
