package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ==================== UUID & TOKEN ====================

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

// GenerateChallengeToken returns the opaque key a client uses to resume an OTP flow.
func GenerateChallengeToken() string {
	return uuid.NewString()
}

// ==================== OTP ====================

// GenerateOTP returns a numeric code of the given length without a leading zero.
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	var sb strings.Builder
	for i := 0; i < length; i++ {
		lower := int64(0)
		if i == 0 {
			lower = 1
		}
		n, err := rand.Int(rand.Reader, big.NewInt(10-lower))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(fmt.Sprintf("generate otp: %v", err))
		}
		sb.WriteByte(byte('0' + lower + n.Int64()))
	}

	return sb.String()
}

// ==================== REFERENCE NUMBERS ====================

// GenerateRideNumber creates a sortable ride reference, e.g. RIDE-01J9Z3...
func GenerateRideNumber() string {
	return "RIDE-" + ulid.Make().String()
}

// GenerateReceipt creates the receipt id sent to the payment gateway.
func GenerateReceipt(now time.Time) string {
	return fmt.Sprintf("RCPT-%s-%s", now.Format("20060102"), ulid.Make().String())
}
