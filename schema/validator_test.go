package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "count": {"type": "integer", "minimum": 1}
  },
  "required": ["name"],
  "additionalProperties": false
}`

func TestValidator(t *testing.T) {
	v, err := NewValidator("test.json", []byte(testSchema))
	require.NoError(t, err)

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count,omitempty"`
	}

	assert.NoError(t, v.Validate(doc{Name: "ok", Count: 2}))
	assert.NoError(t, v.Validate(map[string]interface{}{"name": "ok"}))

	err = v.Validate(doc{Name: "", Count: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/name")

	err = v.Validate(map[string]interface{}{"name": "x", "extra": true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestNewValidatorRejectsBrokenSchema(t *testing.T) {
	_, err := NewValidator("broken.json", []byte(`{"type": 12`))
	assert.Error(t, err)
}
