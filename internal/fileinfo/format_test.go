package fileinfo

import (
	"testing"
	"time"
)

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		size     int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tc := range testCases {
		result := FormatFileSize(tc.size)
		if result != tc.expected {
			t.Errorf("For size %d, expected '%s', got '%s'", tc.size, tc.expected, result)
		}
	}
}

func TestFormatOptionalValues(t *testing.T) {
	if got := FormatEntrySize(nil); got != "-" {
		t.Errorf("expected '-', got %q", got)
	}
	size := int64(2048)
	if got := FormatEntrySize(&size); got != "2.0 KB" {
		t.Errorf("expected '2.0 KB', got %q", got)
	}
	if got := FormatModified(nil); got != "-" {
		t.Errorf("expected '-', got %q", got)
	}
	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)
	if got := FormatModified(&ts); got != "2024-03-09 14:05" {
		t.Errorf("expected '2024-03-09 14:05', got %q", got)
	}
}
