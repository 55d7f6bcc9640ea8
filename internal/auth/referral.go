package auth

import (
	"crypto/rand"
	"math/big"
)

const (
	referralPrefix   = "KYP"
	referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralLength   = 6
)

// GenerateReferralCode returns a code such as "KYP4QZ81B". Uniqueness is
// enforced by the users.referral_code index; callers retry on collision.
func GenerateReferralCode() (string, error) {
	b := make([]byte, referralLength)
	max := big.NewInt(int64(len(referralAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = referralAlphabet[n.Int64()]
	}
	return referralPrefix + string(b), nil
}
