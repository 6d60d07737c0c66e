package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SessionKeyPrefix namespaces session documents.
const SessionKeyPrefix = "session:"

var (
	ErrNotFound = errors.New("record not found")
)

func sessionKey(id string) []byte {
	return []byte(SessionKeyPrefix + id)
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}
