package fileinfo

import (
	"fmt"
	"time"

	"github.com/koompi/file-manager/internal/constants"
)

// FormatFileSize formats file size in human-readable format
func FormatFileSize(size int64) string {
	const unit = constants.FileSizeUnit
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), constants.FileSizeUnits[exp])
}

// FormatEntrySize renders an optional size, "-" when absent.
func FormatEntrySize(size *int64) string {
	if size == nil {
		return constants.MissingValuePlaceholder
	}
	return FormatFileSize(*size)
}

// FormatModified renders an optional timestamp in local time.
func FormatModified(t *time.Time) string {
	if t == nil {
		return constants.MissingValuePlaceholder
	}
	return t.Local().Format(constants.ModifiedTimeLayout)
}
