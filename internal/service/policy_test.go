package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/meeting-room-scheduler/internal/model"
	"github.com/iliyamo/meeting-room-scheduler/internal/schedule"
)

func normal(msg string) model.Reservation {
	return model.Reservation{RequesterName: "Ada", RequesterEmail: "ada@example.com", PurposeMessage: msg, Date: "2024-06-03", Time: "09:00"}
}

func TestPurposeLengthBoundary(t *testing.T) {
	p := DefaultPolicy(domain)

	_, err := p.Normalize(normal(strings.Repeat("x", 9)))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "roomMessage", verr.Field)
	assert.ErrorIs(t, err, ErrValidation)

	got, err := p.Normalize(normal(strings.Repeat("x", 10)))
	require.NoError(t, err)
	assert.Len(t, got.PurposeMessage, 10)

	// surrounding whitespace counts and is kept
	got, err = p.Normalize(normal(" abcdefghi"))
	require.NoError(t, err)
	assert.Equal(t, " abcdefghi", got.PurposeMessage)
	got, err = p.Normalize(normal("abcdefghij  "))
	require.NoError(t, err)
	assert.Equal(t, "abcdefghij  ", got.PurposeMessage)
	_, err = p.Normalize(normal(" abcdefgh"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "roomMessage", verr.Field)

	_, err = p.Normalize(normal(strings.Repeat(" ", 12)))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "roomMessage", verr.Field)

	// characters, not bytes
	_, err = p.Normalize(normal("réservé ok"))
	assert.NoError(t, err)
	_, err = p.Normalize(normal("réservé"))
	assert.Error(t, err)
}

func TestRequiredIdentity(t *testing.T) {
	p := DefaultPolicy(domain)

	r := normal("a long enough message")
	r.RequesterName = "   "
	_, err := p.Normalize(r)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	r = normal("a long enough message")
	r.RequesterEmail = ""
	_, err = p.Normalize(r)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestAdministrativeBlockWaivesChecks(t *testing.T) {
	p := DefaultPolicy(domain)
	got, err := p.Normalize(model.Reservation{IsAdministrativeBlock: true, RequesterName: "Boss", RequesterEmail: "boss@valdosta.edu"})
	require.NoError(t, err)
	assert.Equal(t, DefaultBlockPurpose, got.PurposeMessage)
	assert.Equal(t, "STAFF", got.RequesterName)
	assert.Equal(t, "staff@valdosta.edu", got.RequesterEmail)

	got, err = p.Normalize(model.Reservation{IsAdministrativeBlock: true, PurposeMessage: "HVAC"})
	require.NoError(t, err)
	assert.Equal(t, "HVAC", got.PurposeMessage)
}

func TestCheckSlot(t *testing.T) {
	p := DefaultPolicy(domain)
	wed := time.Date(2024, 6, 5, 12, 0, 0, 0, time.Local)
	grid := schedule.NewGrid(wed, 8, 16)
	staff := Actor{Role: model.RoleStaff, Email: "boss@valdosta.edu"}

	field := func(err error) string {
		var verr *ValidationError
		if err == nil {
			return ""
		}
		require.ErrorAs(t, err, &verr)
		return verr.Field
	}

	assert.Empty(t, field(p.CheckSlot(Anonymous, model.Slot{Date: "2024-06-03", Time: "09:00"}, grid)))
	assert.Equal(t, "date", field(p.CheckSlot(Anonymous, model.Slot{Date: "2024-06-10", Time: "09:00"}, grid)))
	assert.Equal(t, "date", field(p.CheckSlot(Anonymous, model.Slot{Date: "June 3", Time: "09:00"}, grid)))
	assert.Equal(t, "time", field(p.CheckSlot(Anonymous, model.Slot{Date: "2024-06-03", Time: "07:00"}, grid)))
	assert.Equal(t, "time", field(p.CheckSlot(staff, model.Slot{Date: "2024-06-03", Time: "09:30"}, grid)))
	assert.Empty(t, field(p.CheckSlot(staff, model.Slot{Date: "2024-06-10", Time: "09:00"}, grid)))
}
