package prediction

import (
	"fmt"
	"math"
	"time"
)

// unknownTime is shown when no arrival time can be computed.
const unknownTime = "--:--"

// durationText renders minutes as "X h Y min", "X h" or "Y min".
func durationText(minutes float64) string {
	total := int(math.Round(minutes))
	if total >= 60 {
		if total%60 == 0 {
			return fmt.Sprintf("%d h", total/60)
		}
		return fmt.Sprintf("%d h %d min", total/60, total%60)
	}
	return fmt.Sprintf("%d min", total)
}

// arrivalTime renders the clock time reached after travelling the
// given minutes from departure.
func arrivalTime(departure time.Time, minutes float64) string {
	if departure.IsZero() {
		return unknownTime
	}
	arrival := departure.Add(time.Duration(math.Round(minutes)) * time.Minute)
	return arrival.Format("15:04")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
