package auth

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// 43 symbols of the 64-character URL-safe alphabet carry 258 bits.
const sessionTokenLength = 43

func GenerateSessionToken() (string, error) {
	generateID, err := nanoid.Standard(sessionTokenLength)
	if err != nil {
		return "", fmt.Errorf("init token generator: %w", err)
	}
	return generateID(), nil
}
