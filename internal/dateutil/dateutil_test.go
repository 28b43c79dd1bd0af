package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "blog display format", format: "DD MMMM, YYYY", want: "02 January, 2006"},
		{name: "iso tokens", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "short month and unpadded day", format: "MMM D", want: "Jan 2"},
		{name: "two-digit year", format: "YY/M", want: "06/1"},
		{name: "preset name expands", format: "long", want: "January 2, 2006"},
		{name: "preset name is case-insensitive", format: "ISO", want: "2006-01-02"},
		{name: "brackets escape tokens", format: "[Posted] DD.MM", want: "Posted 02.01"},
		{name: "unclosed bracket", format: "[Posted DD", wantErr: ErrInvalidDateFormat},
		{name: "empty format", format: "", wantErr: ErrInvalidDateFormat},
		{
			name:    "format exceeding max length",
			format:  string(make([]byte, MaxDateFormatLength+1)),
			wantErr: ErrInvalidDateFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	jan1 := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "calendar date", value: "2020-01-01", want: jan1},
		{name: "surrounding whitespace", value: "  2020-01-01 ", want: jan1},
		{name: "rfc3339 keeps local calendar day", value: "2020-01-01T23:30:00-05:00", want: jan1},
		{name: "datetime without zone", value: "2020-01-01T08:15:00", want: jan1},
		{name: "datetime with space", value: "2020-01-01 08:15:00", want: jan1},
		{name: "datetime with numeric offset", value: "2020-01-01 10:00:00 +0200", want: jan1},
		{name: "datetime with colon offset", value: "2020-01-01 23:30:00-05:00", want: jan1},
		{name: "datetime with zulu", value: "2020-01-01 10:00:00Z", want: jan1},
		{name: "empty", value: "", wantErr: true},
		{name: "day-first rejected", value: "01/01/2020", wantErr: true},
		{name: "impossible date", value: "2020-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDate(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatter(t *testing.T) {
	t.Parallel()

	day := time.Date(2019, time.March, 7, 0, 0, 0, 0, time.UTC)

	t.Run("empty format uses blog default", func(t *testing.T) {
		t.Parallel()

		f, err := NewFormatter("")
		if err != nil {
			t.Fatalf("NewFormatter() error = %v", err)
		}
		if got := f.Format(day); got != "07 March, 2019" {
			t.Errorf("Format() = %q, want %q", got, "07 March, 2019")
		}
	})

	t.Run("custom format", func(t *testing.T) {
		t.Parallel()

		f, err := NewFormatter("YYYY/MM/DD")
		if err != nil {
			t.Fatalf("NewFormatter() error = %v", err)
		}
		if got := f.Format(day); got != "2019/03/07" {
			t.Errorf("Format() = %q, want %q", got, "2019/03/07")
		}
	})

	t.Run("invalid format rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := NewFormatter("[oops"); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("NewFormatter() error = %v, want ErrInvalidDateFormat", err)
		}
	})
}
