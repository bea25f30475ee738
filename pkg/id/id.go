package id

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

func Generate() string {
	return uuid.New().String()
}

func IsValidUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// NewReference builds a prefixed, time-ordered reference for ledger entries,
// e.g. "wd-1736463364123456789".
func NewReference(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
