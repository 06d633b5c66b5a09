package attendance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	t.Run("normalizes to UTC midnight", func(t *testing.T) {
		eat := time.FixedZone("EAT", 3*3600)
		d := NewDate(time.Date(2026, time.March, 9, 1, 30, 0, 0, eat)) // 2026-03-08 22:30 UTC

		assert.Equal(t, "2026-03-08", d.String())
		assert.Equal(t, time.UTC, d.Location())
		assert.Zero(t, d.Hour())
	})

	t.Run("parse round trip", func(t *testing.T) {
		d, err := ParseDate("2026-03-09")
		require.NoError(t, err)
		assert.Equal(t, "2026-03-09", d.String())

		_, err = ParseDate("09-03-2026")
		assert.Error(t, err)
	})

	t.Run("add days crosses month boundaries", func(t *testing.T) {
		d, _ := ParseDate("2026-03-01")
		assert.Equal(t, "2026-02-22", d.AddDays(-7).String())
		assert.Equal(t, "2026-03-31", d.AddDays(30).String())
	})

	t.Run("json", func(t *testing.T) {
		d, _ := ParseDate("2026-03-09")
		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2026-03-09"`, string(data))

		var parsed Date
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.True(t, parsed.Equal(d.Time))

		assert.NoError(t, json.Unmarshal([]byte(`null`), &parsed))
		assert.True(t, parsed.IsZero())

		assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &parsed))
		assert.Error(t, json.Unmarshal([]byte(`20260309`), &parsed))
	})

	t.Run("scan", func(t *testing.T) {
		var d Date
		require.NoError(t, d.Scan(time.Date(2026, time.March, 9, 13, 0, 0, 0, time.UTC)))
		assert.Equal(t, "2026-03-09", d.String())

		require.NoError(t, d.Scan("2026-03-10"))
		assert.Equal(t, "2026-03-10", d.String())

		require.NoError(t, d.Scan([]byte("2026-03-11")))
		assert.Equal(t, "2026-03-11", d.String())

		assert.Error(t, d.Scan(42))
	})
}
