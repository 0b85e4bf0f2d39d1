package envvars

import (
	"testing"

	"github.com/panbanda/handover/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestScan(t *testing.T) {
	files := []models.FileAnalysis{
		{Content: "const url = process.env.DATABASE_URL;\nconst port = process.env.PORT || 3000;"},
		{Content: "if (process.env.NODE_ENV === 'test') { process.env.PORT }"},
		{Content: "process.env.lowercase; process.env['QUOTED']; process.env._PRIVATE2"},
	}
	assert.Equal(t, []string{"DATABASE_URL", "NODE_ENV", "PORT", "_PRIVATE2"}, Scan(files))
}

func TestScanPrefixOnly(t *testing.T) {
	// Only the upper-case prefix of a mixed-case name is captured.
	got := Scan([]models.FileAnalysis{{Content: "process.env.API_key"}})
	assert.Equal(t, []string{"API_"}, got)
}

func TestScanNone(t *testing.T) {
	got := Scan([]models.FileAnalysis{{Content: "const env = {}"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
