package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfUsesInstantLocation(t *testing.T) {
	// 23:30 on Jan 1 in UTC+2 is still Jan 1 for that zone, even though
	// the UTC instant is already Jan 1 21:30.
	loc := time.FixedZone("UTC+2", 2*60*60)
	instant := time.Date(2024, time.January, 1, 23, 30, 0, 0, loc)

	d := DateOf(instant)
	assert.Equal(t, "2024-01-01", d.String())
}

func TestDateComparisons(t *testing.T) {
	jan1 := NewDate(2024, time.January, 1)
	jan2 := NewDate(2024, time.January, 2)

	assert.True(t, jan1.Before(jan2))
	assert.False(t, jan2.Before(jan1))
	assert.False(t, jan1.Before(jan1))
	assert.True(t, jan1.Equal(NewDate(2024, time.January, 1)))
	assert.Equal(t, jan2, jan1.AddDays(1))
	assert.Equal(t, jan1, jan2.AddDays(-1))
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, time.January, 2)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-02"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, d.Equal(decoded))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("not-a-date")
	assert.Error(t, err)

	_, err = ParseDate("2024-13-40")
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-01-02", d.String())

	require.NoError(t, d.Scan("2024-03-04"))
	assert.Equal(t, "2024-03-04", d.String())

	assert.Error(t, d.Scan(42))
}
