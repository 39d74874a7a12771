package utils_test

import (
	"testing"

	"creation-server/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestReadSecretRejectsInvalidNames(t *testing.T) {
	for _, name := range []string{"", "../etc/passwd", "a/b", `a\b`} {
		_, err := utils.ReadSecret(name)

		assert.Error(t, err, "secret name %q must be rejected", name)
		assert.Contains(t, err.Error(), "invalid secret name")
	}
}

func TestReadSecretMissingFile(t *testing.T) {
	_, err := utils.ReadSecret("definitely_not_provisioned")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "/run/secrets/definitely_not_provisioned")
}
