package redis

import "fmt"

const ns = "cinebook:v1"

func KeyScreeningSummary(screeningID int64) string {
	return fmt.Sprintf("%s:screening:%d:summary", ns, screeningID)
}

func KeyScreeningAvailability(screeningID int64) string {
	return fmt.Sprintf("%s:screening:%d:availability", ns, screeningID)
}

func KeyScreeningSeatMap(screeningID int64) string {
	return fmt.Sprintf("%s:screening:%d:seatmap", ns, screeningID)
}

func ChannelScreeningsChanged() string {
	return ns + ":screenings:changed"
}
