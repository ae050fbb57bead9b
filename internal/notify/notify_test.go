package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestToastExpires(t *testing.T) {
	t.Parallel()

	c := NewCenter(nil, 20*time.Millisecond, zerolog.Nop())
	c.Error("boom")
	require.Len(t, c.Active(), 1)

	require.Eventually(t, func() bool { return len(c.Active()) == 0 }, time.Second, 5*time.Millisecond)
	require.Len(t, c.History(), 1)
}

func TestStickyToastStaysUntilDismissed(t *testing.T) {
	t.Parallel()

	c := NewCenter(nil, 10*time.Millisecond, zerolog.Nop())
	id := c.Show(KindInfo, "Invite link", Sticky)

	time.Sleep(30 * time.Millisecond)
	require.Len(t, c.Active(), 1)

	c.Dismiss(id)
	require.Empty(t, c.Active())
}

func TestToastPrints(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewCenter(&buf, time.Minute, zerolog.Nop())
	c.Success("RSVP updated")

	require.Contains(t, buf.String(), "RSVP updated")
	last, ok := c.Last()
	require.True(t, ok)
	require.Equal(t, KindSuccess, last.Kind)
	require.Equal(t, time.Minute, last.TTL)
}
