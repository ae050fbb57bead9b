package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/models"
)

type staticAuth string

func (s staticAuth) AuthHeader() (string, bool) { return string(s), s != "" }

func testConfig(base string) config.API {
	return config.API{
		BaseURL:                base,
		AdminBase:              "/api/admin",
		HealthEndpoint:         "/api/admin/health",
		RSVPEndpoint:           "/api/public/rsvp",
		RSVPMetaEndpoint:       "/api/public/rsvp-meta",
		PublicSettingsEndpoint: "/api/public/settings",
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(testConfig(srv.URL), srv.Client(), zerolog.Nop())
}

func TestHealth(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/admin/health", r.URL.Path)
		if r.Header.Get("Authorization") != "Basic good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, c.Health(context.Background(), "Basic good"))
	err := c.Health(context.Background(), "Basic bad")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRSVPMetaEscapesToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/public/rsvp-meta/a%2Fb", r.URL.EscapedPath())
		_, _ = io.WriteString(w, `{"name":{"firstName":"Jo","lastName":"Lee"},"allowedPartySize":3,"guestId":"g-1"}`)
	})

	meta, err := c.RSVPMeta(context.Background(), "a/b")
	require.NoError(t, err)
	require.Equal(t, "Jo", meta.Name.FirstName)
	require.Equal(t, 3, *meta.AllowedPartySize)
	require.Equal(t, "g-1", meta.GuestID)
}

func TestErrorMessageExtraction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{"json message", `{"message":"Duplicate name"}`, "Duplicate name"},
		{"json error", `{"error":"no such guest"}`, "no such guest"},
		{"plain text", "upstream down\n", "upstream down"},
		{"empty", "", "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := c.PublicSettings(context.Background())
			require.Error(t, err)
			require.Equal(t, tc.want, Message(err))
		})
	}
}

func TestSubmitRSVP(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/public/rsvp", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"rsvp-9"}`)
	})

	receipt, err := c.SubmitRSVP(context.Background(), models.Submission{
		FullName:   models.Name{FirstName: "Jo", LastName: "Lee"},
		Attendance: models.DeclinedAttendance{},
	})
	require.NoError(t, err)
	require.Equal(t, "rsvp-9", receipt.LockID())
	require.Contains(t, got, "rsvpRequestSubmission")
}

func TestAdminRequiresCredentials(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.Admin(staticAuth("")).Invitees(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAdminEndpoints(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Basic tok", r.Header.Get("Authorization"))
		switch r.Method + " " + r.URL.Path {
		case "GET /api/admin/invitees":
			_, _ = io.WriteString(w, `[{"id":"g-1","firstName":"Jo","lastName":"Lee","allowedPartySize":2,"guestCode":"ABC","rsvpId":"r-1"}]`)
		case "POST /api/admin/invite":
			_, _ = io.WriteString(w, `{"inviteLink":"http://site/rsvp?token=g-2"}`)
		case "GET /api/admin/rsvps":
			_, _ = io.WriteString(w, `{"unexpected":true}`)
		case "GET /api/admin/expected-turnout":
			_, _ = io.WriteString(w, `[{"id":"a"}]`)
		case "POST /api/admin/rsvps/r-1":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, map[string]any{"approvalStatus": "Approved"}, body)
			_, _ = io.WriteString(w, `{"id":"r-1","status":"Accepted","approvalStatus":"Approved"}`)
		case "DELETE /api/admin/invitees/g-1":
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	admin := c.Admin(staticAuth("Basic tok"))
	ctx := context.Background()

	guests, err := admin.Invitees(ctx)
	require.NoError(t, err)
	require.Len(t, guests, 1)
	require.True(t, guests[0].Responded())

	res, err := admin.Invite(ctx, models.InviteRequest{Name: models.Name{FirstName: "A", LastName: "B"}, AllowedPartySize: 1})
	require.NoError(t, err)
	require.Equal(t, "http://site/rsvp?token=g-2", res.Link)

	rsvps, err := admin.RSVPs(ctx)
	require.NoError(t, err)
	require.Empty(t, rsvps)

	turnout, err := admin.ExpectedTurnout(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, turnout.Total())

	updated, err := admin.UpdateRSVP(ctx, "r-1", models.ApprovalOverride{ApprovalStatus: models.ApprovalApproved})
	require.NoError(t, err)
	require.Equal(t, models.RSVPAccepted, updated.Status)
	require.True(t, updated.Approved())

	require.NoError(t, admin.DeleteInvitee(ctx, "g-1"))

	_, err = admin.RSVP(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseInviteResult(t *testing.T) {
	t.Parallel()

	require.Equal(t, "http://x/rsvp?token=1", parseInviteResult([]byte(`"http://x/rsvp?token=1"`)).Link)
	require.Equal(t, "http://x/rsvp?token=2", parseInviteResult([]byte(`http://x/rsvp?token=2`)).Link)
	require.Equal(t, "g-3", parseInviteResult([]byte(`{"link":"l","id":"g-3"}`)).GuestID)
	require.Empty(t, parseInviteResult(nil).Link)
}

func TestAbsoluteEndpoint(t *testing.T) {
	t.Parallel()

	c := New(config.API{BaseURL: "http://api", RSVPMetaEndpoint: "https://meta.example/m/"}, nil, zerolog.Nop())
	require.Equal(t, "https://meta.example/m/tok", c.endpoint(c.cfg.RSVPMetaEndpoint, "tok"))
	require.Equal(t, "http://api/api/admin/rsvps/r%201", c.endpoint("/api/admin", "rsvps", "r 1"))
}
