package assistant

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Fixed answers. Every intent answer ends with SignatureSuffix.
const (
	NoChildDataAnswer      = "Belum ada data anak yang terhubung dengan akun Anda."
	LocationUnknownAnswer  = "Lokasi anak belum terdeteksi."
	NoRecentCallsAnswer    = "Tidak ada riwayat panggilan terbaru."
	NothingToAnalyzeAnswer = "Tidak ada media terbaru yang dapat dianalisis."
	SignatureSuffix        = "\n\nSalam hangat, Asisten KidWatch"

	unknownChildName = "tidak diketahui"
	placeholder      = "-"
	contextDivider   = "\n\n----------------------------------------\n\n"
)

const (
	maxCallLines    = 5
	maxMessageLines = 5
	maxMediaPerKid  = 5

	maxLocationBlocks = 10
)

var wib = time.FixedZone("WIB", 7*60*60)

func formatWIB(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return t.In(wib).Format("02-01-2006 15:04") + " WIB"
}

func mapsLink(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", formatCoord(lat), formatCoord(lng))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func valueOr(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return strings.TrimSpace(*value)
}

func formatDuration(seconds *int) string {
	if seconds == nil || *seconds < 0 {
		return placeholder
	}
	minutes := *seconds / 60
	if minutes == 0 {
		return fmt.Sprintf("%d detik", *seconds)
	}
	return fmt.Sprintf("%d menit %d detik", minutes, *seconds%60)
}

func withSignature(answer string) string {
	return answer + SignatureSuffix
}
