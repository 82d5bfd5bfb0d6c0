package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// compareHash is a seam for tests counting bcrypt comparisons.
var compareHash = bcrypt.CompareHashAndPassword

// prehash condenses any password to 44 bytes so bcrypt's 72-byte input
// limit never applies.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prehash(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	if IsLegacyHash(hash) {
		return subtle.ConstantTimeCompare([]byte(legacyDigest(password)), []byte(hash)) == 1
	}
	err := compareHash([]byte(hash), prehash(password))
	return err == nil
}

var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := HashPassword("dummy password for unknown accounts")
	return []byte(hash)
})

// burnPasswordCheck spends one bcrypt comparison so unknown accounts take as
// long to reject as wrong passwords.
func burnPasswordCheck(password string) {
	_ = compareHash(dummyHash(), prehash(password))
}

// IsLegacyHash reports whether hash is an unsalted SHA-256 hex digest left
// over from accounts created before bcrypt was adopted.
func IsLegacyHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func legacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
