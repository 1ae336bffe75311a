package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/meeting-room-scheduler/internal/config"
	"github.com/iliyamo/meeting-room-scheduler/internal/model"
	"github.com/iliyamo/meeting-room-scheduler/internal/schedule"
	"github.com/iliyamo/meeting-room-scheduler/internal/service"
)

func TestWeekCommandMemoryStore(t *testing.T) {
	var out bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetArgs([]string{"week", "--store", "memory", "--at", "2024-06-09"})
	require.NoError(t, root.ExecuteContext(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[0], "Monday 2024-06-03")
	assert.Contains(t, lines[0], "Friday 2024-06-07")
	assert.True(t, strings.HasPrefix(lines[1], "08:00"))
	assert.True(t, strings.HasPrefix(lines[9], "16:00"))
}

func TestWeekCommandRejectsBadDate(t *testing.T) {
	root := NewRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"week", "--store", "memory", "--at", "June 5"})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestUnknownStoreOverride(t *testing.T) {
	root := NewRoot()
	root.SetArgs([]string{"week", "--store", "postgres"})
	assert.Error(t, root.ExecuteContext(context.Background()))
}

func TestPrintWeek(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Store.Backend = "memory"
	a, err := newApp(ctx, &cfg, schedule.FixedClock(mustDate(t, "2024-06-05")), service.Options{})
	require.NoError(t, err)
	defer a.Close()

	_, err = a.bookings.Book(ctx, service.Anonymous, service.ReservationInput{
		Name: "Ada", Email: "ada@example.com", Date: "2024-06-05", Time: "09:00", PurposeMessage: "design review",
	})
	require.NoError(t, err)
	_, err = a.gate.Login(ctx, "boss@valdosta.edu", "Boss")
	require.NoError(t, err)
	_, err = a.bookings.Book(ctx, a.gate.Actor(), service.ReservationInput{Date: "2024-06-07", Time: "16:00", AdministrativeBlock: true})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printWeek(&out, a.bookings.Week()))
	text := out.String()
	assert.Contains(t, text, "Wednesday 2024-06-05 *")
	assert.Contains(t, text, "Ada")
	assert.Contains(t, text, "BLOCKED")
	assert.Equal(t, model.RoleStaff, a.gate.Classify())
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation(schedule.DateLayout, s, time.Local)
	require.NoError(t, err)
	return d
}

func TestNewAppUsesConfiguredHours(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "memory"
	cfg.OpeningHour, cfg.ClosingHour = 0, 0
	require.NoError(t, cfg.Validate())

	a, err := newApp(context.Background(), &cfg, schedule.FixedClock(mustDate(t, "2024-06-05")), service.Options{})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, []string{"00:00"}, a.bookings.Grid().Times)
}
