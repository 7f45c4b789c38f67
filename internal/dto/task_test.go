package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshalValid(t *testing.T) {
	var body struct {
		Due Date `json:"due_date"`
	}
	err := json.Unmarshal([]byte(`{"due_date": "2025-01-10"}`), &body)
	require.NoError(t, err)
	require.NotNil(t, body.Due.Ptr())
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), *body.Due.Ptr())
}

func TestDateUnmarshalNullAndEmpty(t *testing.T) {
	for _, raw := range []string{`{"due_date": null}`, `{"due_date": ""}`, `{}`} {
		var body struct {
			Due Date `json:"due_date"`
		}
		err := json.Unmarshal([]byte(raw), &body)
		require.NoError(t, err, raw)
		assert.Nil(t, body.Due.Ptr(), raw)
	}
}

func TestDateRecordsPresence(t *testing.T) {
	var body struct {
		Due Date `json:"due_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": null}`), &body))
	assert.True(t, body.Due.Set())
	assert.Nil(t, body.Due.Ptr())

	body.Due = Date{}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.Due.Set())

	body.Due = Date{}
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": "2025-01-10"}`), &body))
	assert.True(t, body.Due.Set())
	require.NotNil(t, body.Due.Ptr())
}

func TestDateUnmarshalRejectsOtherFormats(t *testing.T) {
	for _, raw := range []string{
		`"01-01-2025"`,
		`"2025/01/01"`,
		`"2025-1-1"`,
		`"2025-01-10T00:00:00Z"`,
		`"10 Jan 2025"`,
		`20250110`,
	} {
		var d Date
		err := json.Unmarshal([]byte(raw), &d)
		assert.Error(t, err, raw)
	}
}

func TestDateUnmarshalRejectsImpossibleDates(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"2025-02-30"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"2025-13-01"`), &d))
}
