package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dates(days int) (time.Time, time.Time) {
	checkIn := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return checkIn, checkIn.AddDate(0, 0, days)
}

func TestMonthsRoundsUpStartedPeriods(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{1, 1},
		{29, 1},
		{30, 1},
		{31, 2},
		{60, 2},
		{61, 3},
	}
	for _, tc := range cases {
		checkIn, checkOut := dates(tc.days)
		assert.Equal(t, tc.want, Months(checkIn, checkOut), "days=%d", tc.days)
	}

	checkIn, _ := dates(0)
	assert.Equal(t, 0, Months(checkIn, checkIn))
	assert.Equal(t, 0, Months(checkIn, checkIn.Add(-time.Hour)))
}

func TestNewBookingValidation(t *testing.T) {
	checkIn, checkOut := dates(45)
	base := CreateParams{
		ID:          "bk-1",
		StudentID:   "student",
		PropertyID:  "prop-1",
		RoomType:    "single",
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		TotalAmount: 170000,
	}

	b, err := New(base)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
	assert.Equal(t, "EUR", b.Currency, "currency defaults")

	bad := base
	bad.StudentID = ""
	_, err = New(bad)
	assert.ErrorIs(t, err, ErrStudentRequired)

	bad = base
	bad.PropertyID = " "
	_, err = New(bad)
	assert.ErrorIs(t, err, ErrPropertyRequired)

	bad = base
	bad.CheckOut = checkIn
	_, err = New(bad)
	assert.ErrorIs(t, err, ErrInvalidDates)

	bad = base
	bad.CheckOut = checkIn.Add(-24 * time.Hour)
	_, err = New(bad)
	assert.ErrorIs(t, err, ErrInvalidDates)
}

func TestBookingStatusTransitions(t *testing.T) {
	checkIn, checkOut := dates(30)
	now := time.Now()

	b, err := New(CreateParams{
		ID: "bk-1", StudentID: "student", PropertyID: "prop-1",
		CheckIn: checkIn, CheckOut: checkOut,
	})
	require.NoError(t, err)

	require.NoError(t, b.Confirm(now))
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.ErrorIs(t, b.Confirm(now), ErrInvalidState, "double confirm rejected")

	require.NoError(t, b.Cancel(now))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.ErrorIs(t, b.Cancel(now), ErrInvalidState, "cancel is terminal")
}
