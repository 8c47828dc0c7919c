package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		input   string
		want    Day
		wantErr bool
	}{
		{"Monday", Monday, false},
		{"monday", Monday, false},
		{"MON", Monday, false},
		{" tue ", Tuesday, false},
		{"wednesday", Wednesday, false},
		{"thu", Thursday, false},
		{"Fri", Friday, false},
		{"sat", Saturday, false},
		{"Sunday", Sunday, false},
		{"", 0, true},
		{"mo", 0, true},
		{"weekday", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDay_Names(t *testing.T) {
	assert.Equal(t, "Wednesday", Wednesday.String())
	assert.Equal(t, "Wed", Wednesday.Short())
	assert.Equal(t, "Day(9)", Day(9).String())
	assert.Equal(t, "???", Day(-1).Short())
	assert.False(t, Day(7).IsValid())
}

func TestDay_NextPrevWrap(t *testing.T) {
	assert.Equal(t, Monday, Sunday.Next())
	assert.Equal(t, Sunday, Monday.Prev())
	assert.Equal(t, Thursday, Wednesday.Next())
	assert.Equal(t, Tuesday, Wednesday.Prev())
}

func TestDay_IsWeekend(t *testing.T) {
	for _, d := range AllDays() {
		assert.Equal(t, d == Saturday || d == Sunday, d.IsWeekend(), d.String())
	}
}

func TestDayFromName(t *testing.T) {
	d, ok := DayFromName("Friday")
	assert.True(t, ok)
	assert.Equal(t, Friday, d)

	_, ok = DayFromName("friday")
	assert.False(t, ok, "document keys are case-sensitive")
}

func TestDayOf(t *testing.T) {
	// 2026-03-02 is a Monday.
	base := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	for i, want := range AllDays() {
		assert.Equal(t, want, DayOf(base.AddDate(0, 0, i)))
	}
}
