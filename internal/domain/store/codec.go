package store

import (
	"encoding/json"

	"kalaghar/internal/errors"
)

// Encode converts a typed model into the schemaless document form via its
// JSON representation.
func Encode(v any) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "encode document")
	}

	return doc, nil
}

// Decode converts a schemaless document back into a typed model.
func Decode(doc Document, v any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "decode document")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(err, "decode document")
	}

	return nil
}
