package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcmartin/studioshift/pkg/core/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseHHMM(t *testing.T) {
	min, err := ParseHHMM("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, min)

	min, err = ParseHHMM("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, min)

	min, err = ParseHHMM("23:59")
	require.NoError(t, err)
	assert.Equal(t, 23*60+59, min)
}

func TestParseHHMM_Invalid(t *testing.T) {
	for _, input := range []string{"24:00", "12:60", "nope", ""} {
		_, err := ParseHHMM(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestFormatMin(t *testing.T) {
	assert.Equal(t, "09:30", FormatMin(9*60+30))
	assert.Equal(t, "00:00", FormatMin(0))
	assert.Equal(t, "23:59", FormatMin(23*60+59))
}

func TestWindowOverlaps(t *testing.T) {
	a := window{start: 100, end: 200}

	assert.True(t, a.overlaps(window{start: 150, end: 250}))
	assert.True(t, a.overlaps(window{start: 50, end: 150}))
	assert.True(t, a.overlaps(window{start: 120, end: 180}))

	// Touching endpoints do not overlap
	assert.False(t, a.overlaps(window{start: 200, end: 300}))
	assert.False(t, a.overlaps(window{start: 0, end: 100}))
}

func TestWindowGapTo(t *testing.T) {
	a := window{start: 100, end: 200}

	assert.Equal(t, int64(50), a.gapTo(window{start: 250, end: 300}))
	assert.Equal(t, int64(30), a.gapTo(window{start: 20, end: 70}))
	assert.Equal(t, int64(0), a.gapTo(window{start: 150, end: 250}))
}

func TestInstanceWindow_CrossMidnight(t *testing.T) {
	inst := model.ShiftInstance{
		Date:     date(2026, 3, 2),
		StartMin: 22 * 60,
		EndMin:   2 * 60,
	}
	w := instanceWindow(inst)
	assert.Equal(t, int64(4*60), w.end-w.start)

	// The window must run into the following calendar day
	nextDayStart := dayNumber(date(2026, 3, 3)) * minutesPerDay
	assert.Greater(t, w.end, nextDayStart)
}

func TestWeeklySpans(t *testing.T) {
	day := model.ShiftInstance{DayOfWeek: 1, StartMin: 9 * 60, EndMin: 17 * 60}
	spans := weeklySpans(day)
	require.Len(t, spans, 1)
	assert.Equal(t, 1, spans[0].dayOfWeek)
	assert.Equal(t, span{9 * 60, 17 * 60}, spans[0].span)

	overnight := model.ShiftInstance{DayOfWeek: 6, StartMin: 22 * 60, EndMin: 2 * 60}
	spans = weeklySpans(overnight)
	require.Len(t, spans, 2)
	assert.Equal(t, 6, spans[0].dayOfWeek)
	assert.Equal(t, span{22 * 60, minutesPerDay}, spans[0].span)
	assert.Equal(t, 0, spans[1].dayOfWeek)
	assert.Equal(t, span{0, 2 * 60}, spans[1].span)
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, isWeekend(0))
	assert.True(t, isWeekend(6))
	for dow := 1; dow <= 5; dow++ {
		assert.False(t, isWeekend(dow))
	}
}
