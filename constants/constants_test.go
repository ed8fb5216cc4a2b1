package constants

import (
	"regexp"
	"testing"
	"time"
)

func TestTimeFormat(t *testing.T) {
	// Check that the default watermark can be parsed using the watermark time format.
	if _, err := time.Parse(TimeFormatWatermark, WatermarkDefault); err != nil {
		t.Fatalf("Unexpected default watermark %q: %v", WatermarkDefault, err)
	}
	// Check that the global regexp can match the default watermark and formatted times.
	re := regexp.MustCompile(TimeFormatWatermarkRegex)
	if !re.MatchString(WatermarkDefault) {
		t.Fatal("Mismatch between WatermarkDefault and regexp in constant TimeFormatWatermarkRegex.")
	}
	formatted := time.Date(2024, 3, 1, 7, 5, 9, 0, time.UTC).Format(TimeFormatWatermark)
	if !re.MatchString(formatted) {
		t.Fatalf("Mismatch between TimeFormatWatermark output %q and TimeFormatWatermarkRegex.", formatted)
	}
	// The sentinel must never look like a timestamp.
	if re.MatchString(WatermarkNoOverride) {
		t.Fatal("WatermarkNoOverride must not match TimeFormatWatermarkRegex.")
	}
}
