package timestamp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToISO(t *testing.T) {
	ts := time.Date(2024, 3, 9, 18, 30, 5, 123_456_789, time.FixedZone("IST", 5*3600+1800))

	tests := []struct {
		name   string
		in     any
		want   string
		wantOK bool
	}{
		{name: "nil", in: nil},
		{name: "empty string", in: ""},
		{name: "string passes through", in: "2024-01-01T00:00:00Z", want: "2024-01-01T00:00:00Z", wantOK: true},
		{name: "native time in UTC", in: ts, want: "2024-03-09T13:00:05.123Z", wantOK: true},
		{name: "pointer to time", in: &ts, want: "2024-03-09T13:00:05.123Z", wantOK: true},
		{name: "zero time", in: time.Time{}},
		{
			name:   "seconds and nanoseconds",
			in:     map[string]any{"seconds": int64(1700000000), "nanoseconds": int64(987_654_321)},
			want:   "2023-11-14T22:13:20.987Z",
			wantOK: true,
		},
		{
			name:   "underscore variant from JSON",
			in:     map[string]any{"_seconds": float64(1700000000), "_nanoseconds": float64(5_000_000)},
			want:   "2023-11-14T22:13:20.005Z",
			wantOK: true,
		},
		{
			name:   "seconds without nanos",
			in:     map[string]any{"seconds": 0},
			want:   "1970-01-01T00:00:00.000Z",
			wantOK: true,
		},
		{name: "unrelated map", in: map[string]any{"foo": 1}},
		{name: "number", in: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToISO(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
