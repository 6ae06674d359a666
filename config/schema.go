package config

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/grovetools/phantomit/schema"
)

// GenerateSchema reflects the JSON Schema of WatchConfig.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown keys are reported by the loader, not rejected here.
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "json",
	}

	s := r.Reflect(&WatchConfig{})
	s.Title = "phantomit configuration"
	s.Description = "Settings read from .phantomit.json, .phantomit.yml or .phantomit.toml."
	s.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(s, "", "  ")
}

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

// Validate checks cfg against the reflected schema.
func Validate(cfg WatchConfig) error {
	validatorOnce.Do(func() {
		var data []byte
		data, validatorErr = GenerateSchema()
		if validatorErr != nil {
			return
		}
		validator, validatorErr = schema.NewValidator("phantomit.json", data)
	})
	if validatorErr != nil {
		return validatorErr
	}
	return validator.Validate(cfg)
}
