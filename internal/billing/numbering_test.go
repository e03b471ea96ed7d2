package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextFromExistingEmpty(t *testing.T) {
	assert.Equal(t, "FV-2025-0001", NextFromExisting("FV", 2025, nil))
	assert.Equal(t, "PPTO-2025-0001", NextFromExisting("PPTO", 2025, []string{}))
}

func TestNextFromExistingMaxPlusOne(t *testing.T) {
	existing := []string{"FV-2025-0001", "FV-2025-0007", "FV-2025-0003"}
	assert.Equal(t, "FV-2025-0008", NextFromExisting("FV", 2025, existing))
}

func TestNextFromExistingIgnoresNonNumericSuffixes(t *testing.T) {
	existing := []string{"FV-vieja", "FV-2024-0002", "borrador"}
	assert.Equal(t, "FV-2025-0003", NextFromExisting("FV", 2025, existing))
}

func TestNextFromExistingPadding(t *testing.T) {
	assert.Equal(t, "FC-2025-0100", NextFromExisting("FC", 2025, []string{"FC-2025-0099"}))
	// Sequences past 9999 are not truncated.
	assert.Equal(t, "FC-2025-10000", NextFromExisting("FC", 2025, []string{"FC-2025-9999"}))
}

func TestMaxSuffix(t *testing.T) {
	assert.Equal(t, 0, MaxSuffix(nil))
	assert.Equal(t, 12, MaxSuffix([]string{"PPTO-2025-0012", "PPTO-2025-0004"}))
}
