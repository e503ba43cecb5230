// Package wire converts the typed request and response DTOs exchanged over
// gRPC to and from google.protobuf.Struct, the single message type of the
// CampusHire service.
package wire

import (
	"fmt"

	"github.com/goccy/go-json"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Encode turns v (a struct with json tags, or a map) into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wire encode: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("wire encode: %w", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("wire encode: %w", err)
	}
	return s, nil
}

// Decode fills v from s. A nil Struct decodes as an empty object.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("wire decode: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("wire decode: %w", err)
	}
	return nil
}
