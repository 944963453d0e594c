package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAnalysisID(t *testing.T) {
	assert.NoError(t, ValidateAnalysisID("6e1ef0a0-94be-4c53-9c22-3a4e6a9d2f01"))
	assert.Error(t, ValidateAnalysisID(""))
	assert.Error(t, ValidateAnalysisID("not-a-uuid"))
	assert.Error(t, ValidateAnalysisID("6e1ef0a0-94be-4c53-9c22"))
}

func TestValidateAnalysisType(t *testing.T) {
	for _, valid := range []string{"sales", "service", "appointment_setting", "sales_followup", "appointment_followup"} {
		assert.NoError(t, ValidateAnalysisType(valid), valid)
	}
	assert.Error(t, ValidateAnalysisType("cold_call"))
	assert.Error(t, ValidateAnalysisType(""))
	assert.Error(t, ValidateAnalysisType("SALES"))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(100))
	assert.Equal(t, 100, ValidateLimit(5000))
}
