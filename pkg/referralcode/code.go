package referralcode

import (
	"strconv"
	"strings"
)

// CodeFromUID derives a deterministic referral code from a user id: a 32-bit
// string hash rendered in base 36, uppercased, padded and prefixed so codes
// always come out 8 characters starting with 'R' (e.g. "R1B2C3D4").
func CodeFromUID(uid string) string {
	var hash int32
	for _, c := range uid {
		hash = (hash << 5) - hash + int32(c)
	}

	h := int64(hash)
	if h < 0 {
		h = -h
	}

	code := strings.ToUpper(strconv.FormatInt(h, 36))
	padded := "R" + code + "00000000"
	return padded[:8]
}
