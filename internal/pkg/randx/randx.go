/*
Package randx provides functions for generating cryptographically secure random identifiers.

It is primarily used to generate fixed-length Base62 encoded assistant
conversation codes and standard UUID message IDs.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// ConversationCodeLength is the fixed length of generated assistant conversation codes.
	ConversationCodeLength = 8
)

// ConversationCode generates a Base62 encoded conversation code using a
// cryptographically secure random number generator (crypto/rand).
func ConversationCode() (string, error) {
	result := make([]byte, ConversationCodeLength)

	for i := range ConversationCodeLength {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for conversation code: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// IsValidConversationCode checks if the given string is a valid conversation code.
// Validity criteria: length equals ConversationCodeLength and all characters
// belong to the Base62Chars set.
func IsValidConversationCode(code string) bool {
	if len(code) != ConversationCodeLength {
		return false
	}

	for _, char := range code {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
