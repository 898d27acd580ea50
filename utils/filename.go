package utils

import (
	"fmt"
	"time"
)

const downloadPrefix = "enel-spb.ru"

// DownloadFileName returns the attachment name for a quote export, e.g. enel-spb.ru_2025-06-01.pdf
func DownloadFileName(now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", downloadPrefix, now.Format("2006-01-02"), ext)
}

// NotificationFileName returns the document name sent to chat subscribers
func NotificationFileName(now time.Time) string {
	return fmt.Sprintf("Расчёт_%s.pdf", now.Format("2006-01-02"))
}

// FormatRuTimestamp formats a time the way ru-RU locale prints date and time
func FormatRuTimestamp(t time.Time) string {
	return t.Format("02.01.2006, 15:04:05")
}
