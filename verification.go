package canopyauth

import (
	"fmt"

	"github.com/canopyhq/canopyauth/internal"
)

// verificationCodeDigits is the fixed length of validator login codes.
const verificationCodeDigits = 6

// GenerateVerificationCode mints a fresh 6-digit code for validator
// onboarding. The caller delivers it out of band; only its hash is stored
// once registration completes.
func GenerateVerificationCode() (string, error) {
	code, err := internal.NewVerificationCode(verificationCodeDigits)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return code, nil
}
