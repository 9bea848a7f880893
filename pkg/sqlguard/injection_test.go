package sqlguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenValue(t *testing.T) {
	t.Run("classic tautology is flagged", func(t *testing.T) {
		finding := ScreenValue("question", "' OR 1=1 --")
		require.NotNil(t, finding)
		assert.Equal(t, "question", finding.Source)
		assert.NotEmpty(t, finding.Fingerprint)
	})

	t.Run("plain thai question is clean", func(t *testing.T) {
		assert.Nil(t, ScreenValue("question", "ยอดขายปี 2024 เป็นเท่าไหร่"))
	})

	t.Run("empty value is clean", func(t *testing.T) {
		assert.Nil(t, ScreenValue("question", ""))
	})
}

func TestScreenQuestion(t *testing.T) {
	t.Run("malicious entity value is flagged", func(t *testing.T) {
		entities := map[string][]string{
			"customers": {"somchai'; DROP TABLE v_sales2024; --"},
		}

		findings := ScreenQuestion("ประวัติลูกค้า somchai", entities)

		require.NotEmpty(t, findings)
		assert.Equal(t, "customers", findings[0].Source)
	})

	t.Run("clean inputs produce no findings", func(t *testing.T) {
		entities := map[string][]string{
			"years":  {"2024"},
			"months": {"02"},
		}

		assert.Empty(t, ScreenQuestion("ยอดขายเดือนกุมภาพันธ์ 2024", entities))
	})
}
