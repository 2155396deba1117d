package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"ab", "testuser", "Name_123", "aaaaaaaaaaaaaaaaaaaa"}
	for _, u := range valid {
		assert.NoError(t, ValidateUsername(u), u)
	}

	invalid := []string{"", "a", "has space", "dash-name", "aaaaaaaaaaaaaaaaaaaaa", "na;me"}
	for _, u := range invalid {
		assert.Error(t, ValidateUsername(u), u)
	}
}

func TestValidateYear(t *testing.T) {
	current := time.Now().UTC().Year()

	assert.NoError(t, ValidateYear(2006))
	assert.NoError(t, ValidateYear(current))
	assert.Error(t, ValidateYear(2005))
	assert.Error(t, ValidateYear(current+1))
}
