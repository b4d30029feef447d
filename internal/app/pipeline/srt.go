package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// RenderSRT renders transcript segments as SubRip subtitles.
func RenderSRT(segments []Segment) string {
	var b strings.Builder
	n := 0
	for _, s := range segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		n++
		if n > 1 {
			b.WriteString("\n")
		}
		end := s.End
		if end < s.Start {
			end = s.Start
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", n, srtTimestamp(s.Start), srtTimestamp(end), text)
	}
	return b.String()
}

// srtTimestamp formats seconds as HH:MM:SS,mmm.
func srtTimestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int64(math.Round(sec * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
