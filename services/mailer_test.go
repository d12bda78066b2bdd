package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordResetBody(t *testing.T) {
	body := PasswordResetBody("https://example.com/reset-password/tok123")

	assert.Contains(t, body, `href="https://example.com/reset-password/tok123"`)
	assert.Contains(t, body, "expire in 1 hour")
}
