package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/team-schedule/internal/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantFirst string
		wantLast  string
		wantLen   int
	}{
		{"single monday", "2024-06-03", "2024-06-03", "2024-06-02", "2024-06-08", 7},
		{"already aligned", "2024-06-02", "2024-06-08", "2024-06-02", "2024-06-08", 7},
		{"sunday start saturday end over three weeks", "2024-06-02", "2024-06-22", "2024-06-02", "2024-06-22", 21},
		{"crosses month", "2024-06-28", "2024-07-02", "2024-06-23", "2024-07-06", 14},
		{"crosses year", "2024-12-31", "2025-01-01", "2024-12-29", "2025-01-04", 7},
		{"leap day", "2024-02-29", "2024-03-01", "2024-02-25", "2024-03-02", 7},
		{"single saturday", "2024-06-08", "2024-06-08", "2024-06-02", "2024-06-08", 7},
		{"single sunday", "2024-06-09", "2024-06-09", "2024-06-09", "2024-06-15", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dates, err := Expand(mustDate(t, tt.start), mustDate(t, tt.end))
			require.NoError(t, err)
			assert.Len(t, dates, tt.wantLen)
			assert.Equal(t, tt.wantFirst, FormatDate(dates[0]))
			assert.Equal(t, tt.wantLast, FormatDate(dates[len(dates)-1]))
		})
	}
}

func TestExpandInvalidRange(t *testing.T) {
	_, err := Expand(mustDate(t, "2024-06-10"), mustDate(t, "2024-06-09"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExpandProperties(t *testing.T) {
	base := mustDate(t, "2023-12-20")
	for offset := 0; offset < 40; offset++ {
		for span := 0; span < 30; span += 3 {
			start := base.AddDate(0, 0, offset)
			end := start.AddDate(0, 0, span)

			dates, err := Expand(start, end)
			require.NoError(t, err)

			assert.Zero(t, len(dates)%DaysPerWeek)
			assert.Equal(t, time.Sunday, dates[0].Weekday())
			assert.Equal(t, time.Saturday, dates[len(dates)-1].Weekday())
			assert.False(t, dates[0].After(start))
			assert.False(t, dates[len(dates)-1].Before(end))
			for i := 1; i < len(dates); i++ {
				assert.Equal(t, dates[i-1].AddDate(0, 0, 1), dates[i])
			}
		}
	}
}

func TestDaysFlagsPadding(t *testing.T) {
	days, err := Days(mustDate(t, "2024-06-03"), mustDate(t, "2024-06-05"))
	require.NoError(t, err)
	require.Len(t, days, 7)

	var inside []string
	for _, d := range days {
		if !d.OutsideRange {
			inside = append(inside, d.Key)
		}
	}
	assert.Equal(t, []string{"2024-06-03", "2024-06-04", "2024-06-05"}, inside)
	assert.Equal(t, 2, days[0].DayNumber)
	assert.True(t, days[0].OutsideRange)
}

var byHour = SlotClassifierFunc(func(startTime string) domain.Slot {
	if startTime >= "12:00" {
		return domain.SlotPM
	}
	return domain.SlotAM
})

func TestAssign(t *testing.T) {
	days, err := Days(mustDate(t, "2024-06-03"), mustDate(t, "2024-06-07"))
	require.NoError(t, err)

	sessions := []domain.Session{
		{Title: "morning", Date: "2024-06-03", Type: domain.TypePractice, StartTime: "09:00"},
		{Title: "evening", Date: "2024-06-03", Type: domain.TypeGame, StartTime: "18:00"},
		{Title: "second morning", Date: "2024-06-03", Type: domain.TypeMeeting, StartTime: "10:00"},
		{Title: "explicit pm", Date: "2024-06-04", Type: domain.TypePractice, Slot: "pm", StartTime: "08:00"},
		{Title: "timestamp date", Date: "2024-06-05T07:30:00Z", Type: domain.TypeRecovery, StartTime: "07:30"},
		{Title: "off", Date: "2024-06-06", Type: domain.TypeDayOff},
		{Title: "ignored practice", Date: "2024-06-06", Type: domain.TypePractice, StartTime: "09:00"},
		{Title: "second off", Date: "2024-06-06", Type: domain.TypeDayOff},
		{Title: "out of grid", Date: "2024-07-01", Type: domain.TypePractice},
	}

	got := Index(Assign(sessions, days, byHour))

	mon := got["2024-06-03"]
	require.NotNil(t, mon.AM)
	require.NotNil(t, mon.PM)
	assert.Equal(t, "morning", mon.AM.Title)
	assert.Equal(t, "evening", mon.PM.Title)
	assert.Nil(t, mon.DayOff)

	tue := got["2024-06-04"]
	assert.Nil(t, tue.AM)
	require.NotNil(t, tue.PM)
	assert.Equal(t, "explicit pm", tue.PM.Title)

	wed := got["2024-06-05"]
	require.NotNil(t, wed.AM)
	assert.Equal(t, "timestamp date", wed.AM.Title)

	thu := got["2024-06-06"]
	require.NotNil(t, thu.DayOff)
	assert.Equal(t, "off", thu.DayOff.Title)
	assert.Nil(t, thu.AM)
	assert.Nil(t, thu.PM)

	assert.True(t, got["2024-06-08"].Empty())
	assert.Len(t, got, 7)
}

func TestAssignSkipsPaddingDays(t *testing.T) {
	days, err := Days(mustDate(t, "2024-06-03"), mustDate(t, "2024-06-03"))
	require.NoError(t, err)
	sessions := []domain.Session{
		{Title: "sunday", Date: "2024-06-02", Type: domain.TypePractice, StartTime: "09:00"},
		{Title: "in range", Date: "2024-06-03", Type: domain.TypePractice, StartTime: "09:00"},
		{Title: "saturday game", Date: "2024-06-08", Type: domain.TypeGame, StartTime: "15:00"},
		{Title: "saturday off", Date: "2024-06-08", Type: domain.TypeDayOff},
	}

	got := Index(Assign(sessions, days, byHour))

	require.NotNil(t, got["2024-06-03"].AM)
	assert.Equal(t, "in range", got["2024-06-03"].AM.Title)
	for _, key := range []string{"2024-06-02", "2024-06-08"} {
		assert.True(t, got[key].OutsideRange, key)
		assert.True(t, got[key].Empty(), key)
	}
}

func TestAssignDoesNotMutateInput(t *testing.T) {
	days, err := Days(mustDate(t, "2024-06-03"), mustDate(t, "2024-06-03"))
	require.NoError(t, err)
	sessions := []domain.Session{{Date: "2024-06-03", Type: domain.TypePractice}}

	assigned := Assign(sessions, days, byHour)

	assert.True(t, days[1].Empty())
	assert.NotNil(t, assigned[1].AM)

	assigned[1].AM.Title = "changed"
	assert.Empty(t, sessions[0].Title)
}

func TestAssignWithoutClassifierDefaultsToAM(t *testing.T) {
	days, err := Days(mustDate(t, "2024-06-03"), mustDate(t, "2024-06-03"))
	require.NoError(t, err)
	sessions := []domain.Session{{Date: "2024-06-03", Type: domain.TypePractice, StartTime: "19:00"}}

	assigned := Assign(sessions, days, nil)
	assert.NotNil(t, assigned[1].AM)
	assert.Nil(t, assigned[1].PM)
}

func TestAssignDayOffExclusive(t *testing.T) {
	days, err := Days(mustDate(t, "2024-06-01"), mustDate(t, "2024-06-30"))
	require.NoError(t, err)

	var sessions []domain.Session
	for i, d := range days {
		switch i % 3 {
		case 0:
			sessions = append(sessions, domain.Session{Date: d.Key, Type: domain.TypeDayOff})
			sessions = append(sessions, domain.Session{Date: d.Key, Type: domain.TypePractice, StartTime: "09:00"})
		case 1:
			sessions = append(sessions, domain.Session{Date: d.Key, Type: domain.TypeGame, StartTime: "15:00"})
		}
	}

	for _, d := range Assign(sessions, days, byHour) {
		if d.DayOff != nil {
			assert.Nil(t, d.AM, d.Key)
			assert.Nil(t, d.PM, d.Key)
		}
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name         string
		start, end   string
		weeksPerPage int
		wantPages    int
		wantLens     []int
	}{
		{"one week two per page", "2024-06-03", "2024-06-03", 2, 1, []int{7}},
		{"three weeks two per page", "2024-06-02", "2024-06-22", 2, 2, []int{14, 7}},
		{"four weeks two per page", "2024-06-02", "2024-06-29", 2, 2, []int{14, 14}},
		{"five weeks one per page", "2024-06-02", "2024-07-06", 1, 5, []int{7, 7, 7, 7, 7}},
		{"five weeks four per page", "2024-06-02", "2024-07-06", 4, 2, []int{28, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := Days(mustDate(t, tt.start), mustDate(t, tt.end))
			require.NoError(t, err)

			pages, err := Paginate(days, tt.weeksPerPage)
			require.NoError(t, err)
			require.Len(t, pages, tt.wantPages)

			var concat []Day
			for i, p := range pages {
				assert.Equal(t, i+1, p.Number)
				assert.Equal(t, tt.wantPages, p.Total)
				assert.Len(t, p.Days, tt.wantLens[i])
				concat = append(concat, p.Days...)
			}
			assert.Equal(t, days, concat)

			totalWeeks := len(days) / DaysPerWeek
			assert.Equal(t, (totalWeeks+tt.weeksPerPage-1)/tt.weeksPerPage, len(pages))
		})
	}
}

func TestPaginateThreeWeeksTwoPerPage(t *testing.T) {
	days, err := Days(mustDate(t, "2024-06-02"), mustDate(t, "2024-06-22"))
	require.NoError(t, err)

	pages, err := Paginate(days, 2)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, pages[0].Weeks())
	assert.Equal(t, 1, pages[1].Weeks())
	assert.Equal(t, "2024-06-16", pages[1].Days[0].Key)
}

func TestPaginateRejectsZeroWeeks(t *testing.T) {
	_, err := Paginate(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidWeeksPerPage)
}

func TestPaginateEmpty(t *testing.T) {
	pages, err := Paginate(nil, 2)
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestCell(t *testing.T) {
	tests := []struct {
		index, row, col int
	}{
		{0, 0, 0},
		{6, 0, 6},
		{7, 1, 0},
		{13, 1, 6},
		{15, 2, 1},
	}
	for _, tt := range tests {
		row, col := Cell(tt.index)
		assert.Equal(t, tt.row, row, "row of %d", tt.index)
		assert.Equal(t, tt.col, col, "col of %d", tt.index)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("06/03/2024")
	assert.Error(t, err)
}
