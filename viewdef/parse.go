package viewdef

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/gofhir/sqlonfhir/issue"
)

// Parse deserialises and validates a ViewDefinition from JSON text
// (spec §6 "ViewDefinition::parse"). The returned ViewDefinition is
// immutable: every path has been constant-substituted and compiled,
// and Schema() is ready to read.
func Parse(jsonText []byte, opts ...Option) (*ViewDefinition, error) {
	var vd ViewDefinition
	if err := json.Unmarshal(jsonText, &vd); err != nil {
		var ie *issue.Error
		if errors.As(err, &ie) {
			return nil, ie
		}
		return nil, issue.Wrap(issue.ParseError, "", err)
	}

	options := buildOptions(opts...)
	if err := vd.validateAndSetUp(options); err != nil {
		return nil, err
	}
	return &vd, nil
}

// ParseFile reads and parses a ViewDefinition from a JSON file on disk.
func ParseFile(path string, opts ...Option) (*ViewDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.Wrap(issue.ParseError, path, err)
	}
	return Parse(data, opts...)
}
