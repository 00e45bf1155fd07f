package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/horae/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveByPrefix(t *testing.T) {
	ids := []string{"abc123", "abd456", "abc"}

	tests := []struct {
		input   string
		want    string
		wantErr string
	}{
		{"abd", "abd456", ""},
		{"abc", "abc", ""},
		{"abc1", "abc123", ""},
		{"ab", "", "ambiguous"},
		{"zz", "", "not found"},
		{"  ", "", "id is required"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := resolveByPrefix("reminder", tt.input, ids)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDate(t *testing.T) {
	now := testutil.Monday

	tests := []struct {
		input string
		want  string
	}{
		{"today", "2025-03-10"},
		{"Tomorrow", "2025-03-11"},
		{"fri", "2025-03-14"},
		{"monday", "2025-03-17"},
		{"sun", "2025-03-16"},
		{"2025-04-01", "2025-04-01"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := resolveDate(tt.input, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "1", "next week", "2025-13-01"} {
		_, err := resolveDate(bad, now)
		assert.Error(t, err, bad)
	}
}

func TestParseWeekdays(t *testing.T) {
	days, err := parseWeekdays("mon, Wed,sun")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 0}, days)

	days, err = parseWeekdays("")
	require.NoError(t, err)
	assert.Nil(t, days)

	_, err = parseWeekdays("mon,funday")
	assert.ErrorContains(t, err, "funday")
}

func TestFormValidators(t *testing.T) {
	assert.NoError(t, validateRequired("title")("Exam"))
	assert.EqualError(t, validateRequired("title")("  "), "title is required")

	assert.NoError(t, validateDate("2025-03-10"))
	assert.Error(t, validateDate("10.03.2025"))

	assert.NoError(t, validateClock("07:45"))
	assert.Error(t, validateClock("7pm"))

	assert.NoError(t, validateNonNegativeInt(""))
	assert.NoError(t, validateNonNegativeInt("15"))
	assert.Error(t, validateNonNegativeInt("-5"))
	assert.Error(t, validateNonNegativeInt("soon"))
}

func TestReminderForm_DefaultsDateToToday(t *testing.T) {
	d := reminderDraft{}
	form := reminderForm(&d, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC))
	require.NotNil(t, form)
	assert.Equal(t, "2025-03-10", d.Date)
}
