package fieldforms

import (
	"regexp"
	"strconv"
	"time"
)

// Vendor GPS metadata embeds an epoch stamp, e.g.
// "Lat:44.98 Lon:-93.26 Acc:12m Time:1700000000". Observed captures carry
// either second or millisecond resolution, disambiguated by magnitude.
var gpsTimeRe = regexp.MustCompile(`Time:\s*(\d{10,14})`)

// Stamps outside this window are treated as unusable sensor garbage rather
// than an error.
const (
	gpsMinYear = 2020
	gpsMaxYear = 2100
)

// ExtractGPSTime recovers the real-world event time from a vendor GPS
// metadata string. Returns nil for absent, malformed, or out-of-window
// values; callers treat nil as "unknown, use observation time".
func ExtractGPSTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}

	m := gpsTimeRe.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}

	epoch, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil
	}

	var t time.Time
	// Millisecond stamps are ~1e12 and up through the supported window;
	// second stamps stay below that for centuries.
	if epoch >= 1_000_000_000_000 {
		t = time.UnixMilli(epoch).UTC()
	} else {
		t = time.Unix(epoch, 0).UTC()
	}

	if year := t.Year(); year < gpsMinYear || year > gpsMaxYear {
		return nil
	}

	return &t
}
