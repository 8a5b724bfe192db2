package booking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/casita/internal/booking"
)

func TestOverlaps(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
	}

	// Existing booking occupies [10, 20).
	existingStart, existingEnd := day(10), day(20)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{
			name:  "RequestStartsInsideExisting",
			start: day(15),
			end:   day(25),
			want:  true,
		},
		{
			name:  "RequestEndsInsideExisting",
			start: day(5),
			end:   day(15),
			want:  true,
		},
		{
			name:  "RequestContainsExisting",
			start: day(5),
			end:   day(25),
			want:  true,
		},
		{
			name:  "RequestInsideExisting",
			start: day(12),
			end:   day(18),
			want:  true,
		},
		{
			name:  "IdenticalRange",
			start: day(10),
			end:   day(20),
			want:  true,
		},
		{
			name:  "SameDayHandoverAfter",
			start: day(20),
			end:   day(25),
			want:  false,
		},
		{
			name:  "SameDayHandoverBefore",
			start: day(5),
			end:   day(10),
			want:  false,
		},
		{
			name:  "DisjointBefore",
			start: day(1),
			end:   day(5),
			want:  false,
		},
		{
			name:  "DisjointAfter",
			start: day(25),
			end:   day(30),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := booking.Overlaps(existingStart, existingEnd, tt.start, tt.end)
			assert.Equal(t, tt.want, got)
		})
	}
}
