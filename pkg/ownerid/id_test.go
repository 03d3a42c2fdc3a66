package ownerid

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id, err := New()
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	other, err := New()
	require.NoError(t, err)
	assert.False(t, id.Equal(other))
}

func TestNew_TimeOrdered(t *testing.T) {
	// UUIDv7 string order approximates creation order.
	var ids []string
	for i := 0; i < 5; i++ {
		id, err := New()
		require.NoError(t, err)
		ids = append(ids, id.String())
		time.Sleep(2 * time.Millisecond)
	}

	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	assert.Equal(t, sorted, ids)
}

func TestParse(t *testing.T) {
	t.Run("canonical form", func(t *testing.T) {
		id, err := Parse("0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b")
		require.NoError(t, err)
		assert.Equal(t, "0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b", id.String())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Parse("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Parse("not-an-id")
		assert.Error(t, err)
	})
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustParse("nope")
	})
}

func TestID_Timestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id, err := New()
	require.NoError(t, err)
	after := time.Now().Add(time.Second)

	ts := id.Timestamp()
	assert.True(t, ts.After(before), "timestamp %v should be after %v", ts, before)
	assert.True(t, ts.Before(after), "timestamp %v should be before %v", ts, after)
}

func TestNewAt_OrdersAgainstGenerated(t *testing.T) {
	cutoff := NewAt(time.Now().Add(-time.Hour))
	id, err := New()
	require.NoError(t, err)

	assert.Less(t, cutoff.String(), id.String())
}

func TestID_JSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := MustParse("0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b")
		data, err := json.Marshal(id)
		require.NoError(t, err)
		assert.Equal(t, `"0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b"`, string(data))

		var parsed ID
		require.NoError(t, json.Unmarshal(data, &parsed))
		assert.True(t, id.Equal(parsed))
	})

	t.Run("zero marshals as null", func(t *testing.T) {
		data, err := json.Marshal(ID{})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))
	})

	t.Run("non-string rejected", func(t *testing.T) {
		var id ID
		assert.Error(t, json.Unmarshal([]byte("42"), &id))
	})
}

func TestID_ScanValue(t *testing.T) {
	id := MustParse("0190a1b2-c3d4-7e5f-8a6b-7c8d9e0f1a2b")

	t.Run("value of valid ID", func(t *testing.T) {
		v, err := id.Value()
		require.NoError(t, err)
		assert.Equal(t, id.String(), v)
	})

	t.Run("value of zero ID is nil", func(t *testing.T) {
		v, err := ID{}.Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("scan string", func(t *testing.T) {
		var scanned ID
		require.NoError(t, scanned.Scan(id.String()))
		assert.True(t, id.Equal(scanned))
	})

	t.Run("scan bytes", func(t *testing.T) {
		var scanned ID
		require.NoError(t, scanned.Scan([]byte(id.String())))
		assert.True(t, id.Equal(scanned))
	})

	t.Run("scan nil", func(t *testing.T) {
		var scanned ID
		require.NoError(t, scanned.Scan(nil))
		assert.True(t, scanned.IsZero())
	})

	t.Run("scan unsupported type", func(t *testing.T) {
		var scanned ID
		assert.Error(t, scanned.Scan(42))
	})
}
