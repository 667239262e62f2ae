package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decision struct {
	NeedClarification bool   `json:"need_clarification"`
	Question          string `json:"question"`
}

func TestDecode_WellFormedPayload(t *testing.T) {
	raw := json.RawMessage(`{"need_clarification": true, "question": "Which region?"}`)
	out, err := Decode[decision](raw)
	require.NoError(t, err)
	assert.True(t, out.NeedClarification)
	assert.Equal(t, "Which region?", out.Question)
}

func TestDecode_IgnoresExtraFields(t *testing.T) {
	raw := json.RawMessage(`{"need_clarification": false, "question": "", "reasoning": "extra"}`)
	out, err := Decode[decision](raw)
	require.NoError(t, err)
	assert.False(t, out.NeedClarification)
}

func TestDecode_TypeMismatchIsSchemaError(t *testing.T) {
	raw := json.RawMessage(`{"need_clarification": "yes"}`)
	_, err := Decode[decision](raw)
	require.Error(t, err)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Target, "decision")
}

func TestDecode_EmptyPayloadIsSchemaError(t *testing.T) {
	_, err := Decode[decision](nil)
	require.Error(t, err)

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestDecode_MalformedJSONIsSchemaError(t *testing.T) {
	_, err := Decode[decision](json.RawMessage(`{"need_clarification":`))
	var se *SchemaError
	require.ErrorAs(t, err, &se)
}

func TestPermanentError_Unwraps(t *testing.T) {
	base := errors.New("request exceeds the context window")
	err := NewPermanentError(base)

	var pe *PermanentError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, base)
	assert.Nil(t, NewPermanentError(nil))
}
