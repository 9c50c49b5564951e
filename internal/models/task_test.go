package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"low", PriorityLow, true},
		{"Medium", PriorityMedium, true},
		{" HIGH ", PriorityHigh, true},
		{"", PriorityMedium, true},
		{"urgent", PriorityMedium, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePriority(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriorityJSON(t *testing.T) {
	data, err := json.Marshal(Task{Title: "a", Priority: PriorityHigh})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"priority":"high"`)

	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"priority":"low"}`), &task))
	assert.Equal(t, PriorityLow, task.Priority)

	assert.Error(t, json.Unmarshal([]byte(`{"priority":"urgent"}`), &task))
	_, err = json.Marshal(Task{Priority: Priority(7)})
	assert.Error(t, err)
}

func TestPriorityScan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    Priority
		wantErr bool
	}{
		{"string", "high", PriorityHigh, false},
		{"bytes", []byte("low"), PriorityLow, false},
		{"null defaults to medium", nil, PriorityMedium, false},
		{"unknown name reads as medium", "urgent", PriorityMedium, false},
		{"mixed case", " High ", PriorityHigh, false},
		{"wrong type", int64(2), PriorityMedium, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PriorityMedium
			err := p.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestPriorityValue(t *testing.T) {
	v, err := PriorityLow.Value()
	require.NoError(t, err)
	assert.Equal(t, "low", v)

	_, err = Priority(-1).Value()
	assert.Error(t, err)
	assert.Equal(t, "Priority(-1)", Priority(-1).String())
}
