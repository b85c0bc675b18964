package mstime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEpochToCalendarKnownDates(t *testing.T) {
	cases := []struct {
		name string
		ns   int64
		want Calendar
	}{
		{
			name: "epoch",
			ns:   0,
			want: Calendar{Year: 1970, Day: 1, Hour: 0, Min: 0, Sec: 0, Nsec: 0},
		},
		{
			name: "2000-12-15 with nanos",
			ns:   int64(time.Date(2000, 12, 15, 13, 45, 30, 123456789, time.UTC).UnixNano()),
			want: Calendar{Year: 2000, Day: 350, Hour: 13, Min: 45, Sec: 30, Nsec: 123456789},
		},
		{
			name: "pre-1970 negative time",
			ns:   int64(time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano()),
			want: Calendar{Year: 1950, Day: 1, Hour: 0, Min: 0, Sec: 0, Nsec: 0},
		},
		{
			name: "far future beyond 32-bit time_t",
			ns:   int64(time.Date(2150, 6, 1, 0, 0, 0, 0, time.UTC).UnixNano()),
			want: Calendar{Year: 2150, Day: 152, Hour: 0, Min: 0, Sec: 0, Nsec: 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EpochToCalendar(tc.ns)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCalendarRoundTrip(t *testing.T) {
	times := []time.Time{
		time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 999999999, time.UTC),
		time.Date(1970, 1, 1, 0, 0, 0, 1, time.UTC),
		time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), // leap day
		time.Date(2099, 12, 31, 23, 0, 0, 0, time.UTC),
	}

	for _, tm := range times {
		ns := tm.UnixNano()
		cal := EpochToCalendar(ns)
		back, err := cal.ToEpochNanos()
		require.NoError(t, err)
		require.Equal(t, Time(ns), back)
	}
}

func TestCalendarInvalidFields(t *testing.T) {
	_, err := Calendar{Year: 2024, Day: 0}.ToEpochNanos()
	require.Error(t, err)

	_, err = Calendar{Year: 2024, Day: 400}.ToEpochNanos()
	require.Error(t, err)

	_, err = Calendar{Year: 2024, Day: 1, Hour: 25}.ToEpochNanos()
	require.Error(t, err)
}

func TestIsLeapYear(t *testing.T) {
	require.True(t, IsLeapYear(2000))
	require.False(t, IsLeapYear(1900))
	require.True(t, IsLeapYear(2024))
	require.False(t, IsLeapYear(2023))
}

func TestTimeSentinels(t *testing.T) {
	require.False(t, Unset.IsSet())
	require.False(t, ErrorTime.IsSet())
	require.True(t, Now().IsSet())
}

func TestFromTimeToTimeRoundTrip(t *testing.T) {
	tm := time.Date(2024, 3, 15, 10, 30, 0, 500, time.UTC)
	got := FromTime(tm).ToTime()
	require.True(t, tm.Equal(got))
}
