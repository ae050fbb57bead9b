package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"wedding-rsvp/internal/admin"
	"wedding-rsvp/internal/models"
)

var (
	badgeGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1")).Bold(true)
	badgeRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8")).Bold(true)
	badgeYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	badgeGray   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	heading     = lipgloss.NewStyle().Foreground(lipgloss.Color("#b08649")).Bold(true)
)

func statusBadge(s models.RSVPStatus) string {
	switch s {
	case models.RSVPAccepted:
		return badgeGreen.Render(s.Label())
	case models.RSVPDeclined:
		return badgeRed.Render(s.Label())
	case models.RSVPPending, models.RSVPWaitlisted:
		return badgeYellow.Render(s.Label())
	}
	return badgeGray.Render(s.Label())
}

func approvalBadge(a models.ApprovalStatus) string {
	if a == models.ApprovalApproved {
		return badgeGreen.Render(a.Label())
	}
	return badgeYellow.Render(a.Label())
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func printTotals(w io.Writer, t admin.Totals) {
	fmt.Fprintf(w, "%s  Total Guests: %d   RSVPs: %d   Expected: %d\n",
		heading.Render("Dashboard"), t.Invitees, t.Responded, t.Expected)
}

func printInvitees(w io.Writer, guests []models.Invitee) {
	if len(guests) == 0 {
		fmt.Fprintln(w, "No guests found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPARTY\tCODE\tRSVP")
	for _, g := range guests {
		rsvp := "-"
		if g.Responded() {
			rsvp = *g.RSVPID
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", g.ID, g.DisplayName(), g.PartySize(), orDash(g.GuestCode), rsvp)
	}
	_ = tw.Flush()
}

func printRSVPs(w io.Writer, list []models.RSVP) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No RSVPs yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tAPPROVAL\tPARTY\tCREATED")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, r.DisplayName(), statusBadge(r.Status), approvalBadge(r.ApprovalStatus), r.PartySize(), formatTime(r.CreatedAt))
	}
	_ = tw.Flush()
}

func printRSVP(w io.Writer, r models.RSVP) {
	fmt.Fprintln(w, heading.Render(r.DisplayName()))
	fmt.Fprintf(w, "ID:        %s\n", r.ID)
	fmt.Fprintf(w, "Status:    %s\n", statusBadge(r.Status))
	fmt.Fprintf(w, "Approval:  %s\n", approvalBadge(r.ApprovalStatus))
	fmt.Fprintf(w, "Email:     %s\n", orDash(models.Deref(r.Email)))
	fmt.Fprintf(w, "Phone:     %s\n", orDash(models.Deref(r.Phone)))
	fmt.Fprintf(w, "Address:   %s\n", r.Address.String())
	fmt.Fprintf(w, "Message:   %s\n", orDash(models.Deref(r.Message)))
	fmt.Fprintf(w, "Special:   %s\n", orDash(models.Deref(r.SpecialAccommodations)))
	fmt.Fprintf(w, "Created:   %s\n", formatTime(r.CreatedAt))
	fmt.Fprintf(w, "Guests responding: %d\n", r.PartySize())
	for _, g := range r.AdditionalGuests {
		fmt.Fprintf(w, "  - %s (%s)\n", g.DisplayName(), orDash(models.Deref(g.SpecialAccommodations)))
	}
}

func printTurnout(w io.Writer, t models.Turnout) {
	groups := t.Groups()
	if len(groups) == 0 {
		fmt.Fprintln(w, "No accepted RSVPs yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PARTY\tNAME\tNOTE")
	for _, g := range groups {
		for _, row := range g.Rows {
			party := ""
			name := "  " + row.Name
			if row.Primary {
				party = fmt.Sprint(g.PartySize)
				name = row.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", party, name, row.Note)
		}
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Expected total: %d\n", t.Total())
}

func printSettings(w io.Writer, s models.Settings) {
	fmt.Fprintf(w, "RSVPs closed:          %t\n", s.RSVPClosed)
	fmt.Fprintf(w, "Open to strangers:     %t\n", s.RSVPOpenToStrangers)
}
