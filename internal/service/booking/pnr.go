package booking

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	pnrPrefix    = "PNR"
	pnrSuffixLen = 5
	pnrAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GeneratePNR builds "PNR" + unix millis + a random base36 suffix. Uniqueness is
// finally enforced by the booking store.
func GeneratePNR(now time.Time) string {
	suffix := make([]byte, pnrSuffixLen)
	for i := range suffix {
		suffix[i] = pnrAlphabet[rand.IntN(len(pnrAlphabet))]
	}
	return pnrPrefix + strconv.FormatInt(now.UnixMilli(), 10) + string(suffix)
}
