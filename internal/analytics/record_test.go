package analytics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueFloat(t *testing.T) {
	tests := []struct {
		name   string
		value  Value
		want   float64
		wantOK bool
	}{
		{name: "native number", value: Number(7.5), want: 7.5, wantOK: true},
		{name: "integer string", value: String("12"), want: 12, wantOK: true},
		{name: "decimal string", value: String("3.25"), want: 3.25, wantOK: true},
		{name: "padded string", value: String(" 8 "), want: 8, wantOK: true},
		{name: "negative string", value: String("-4"), want: -4, wantOK: true},
		{name: "non-numeric string", value: String("abc"), wantOK: false},
		{name: "empty string", value: String(""), wantOK: false},
		{name: "absent", value: Absent(), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.Float()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestValueRaw(t *testing.T) {
	assert.Equal(t, "home visit", String("home visit").Raw())
	assert.Equal(t, "7", Number(7).Raw())
	assert.Equal(t, "7.5", Number(7.5).Raw())
	assert.Equal(t, "", Absent().Raw())
}

func TestValueIsEmpty(t *testing.T) {
	assert.True(t, Absent().IsEmpty())
	assert.True(t, String("").IsEmpty())
	assert.True(t, String("   ").IsEmpty())
	assert.False(t, String("0").IsEmpty())
	assert.False(t, Number(0).IsEmpty())
}

func TestRecordSetGet(t *testing.T) {
	var rec Record
	rec.Set("participant_id", String("P001"))
	rec.Set("sleep_quality", Number(7))

	assert.Equal(t, "P001", rec.Get("participant_id").Raw())
	assert.True(t, rec.Has("sleep_quality"))
	assert.True(t, rec.Get("missing").IsAbsent())
	assert.Equal(t, 2, rec.Len())

	// Overwriting keeps the original position
	rec.Set("participant_id", String("P002"))
	require.Equal(t, 2, rec.Len())
	assert.Equal(t, "participant_id", rec.Fields()[0].Name)
	assert.Equal(t, "P002", rec.Fields()[0].Value.Raw())
}

func TestRecordResolve(t *testing.T) {
	candidates := []string{"participant_id", "record_id"}

	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "primary key present",
			rec:  NewRecord(Field{"participant_id", String("P001")}, Field{"record_id", String("R9")}),
			want: "P001",
		},
		{
			name: "falls through empty primary",
			rec:  NewRecord(Field{"participant_id", String("")}, Field{"record_id", String("R9")}),
			want: "R9",
		},
		{
			name: "numeric key renders as text",
			rec:  NewRecord(Field{"participant_id", Number(42)}),
			want: "42",
		},
		{
			name: "no candidate falls back",
			rec:  NewRecord(Field{"sleep_quality", Number(7)}),
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.Resolve(candidates, "unknown"))
		})
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	input := `{"participant_id":"P001","sleep_quality":7,"notes":"slept well","score":7.5}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(input), &rec))

	assert.Equal(t, KindString, rec.Get("participant_id").Kind())
	assert.Equal(t, KindNumber, rec.Get("sleep_quality").Kind())
	q, ok := rec.Get("score").Float()
	require.True(t, ok)
	assert.Equal(t, 7.5, q)

	// Marshal preserves the document's key order
	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestRecordUnmarshalEdgeCases(t *testing.T) {
	t.Run("null values are dropped", func(t *testing.T) {
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(`{"a":null,"b":"x"}`), &rec))
		assert.False(t, rec.Has("a"))
		assert.True(t, rec.Has("b"))
	})

	t.Run("booleans become strings", func(t *testing.T) {
		var rec Record
		require.NoError(t, json.Unmarshal([]byte(`{"flag":true}`), &rec))
		assert.Equal(t, "true", rec.Get("flag").Raw())
	})

	t.Run("nested objects are rejected", func(t *testing.T) {
		var rec Record
		err := json.Unmarshal([]byte(`{"a":{"b":1}}`), &rec)
		assert.Error(t, err)
	})

	t.Run("non-object input is rejected", func(t *testing.T) {
		var rec Record
		err := json.Unmarshal([]byte(`[1,2]`), &rec)
		assert.Error(t, err)
	})
}
