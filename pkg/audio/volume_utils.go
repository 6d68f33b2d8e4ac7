package audio

import "math"

func volumeToPower(vol float64) float64 {
	// vol is 0.0 to 1.0, mapped onto beep's base-2 exponent.
	// 1.0 is unity gain; anything at or below 0.01 is silenced outright.
	if vol <= 0.01 {
		return -10
	}
	return math.Log2(vol)
}
