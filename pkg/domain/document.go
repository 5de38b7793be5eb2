package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DocumentContentType is the media type of an encoded Document.
const DocumentContentType = "application/json"

// EncodeDocument renders animals as {"animals": [...]} with two-space
// indentation and no trailing newline. HTML characters are not escaped so
// the text stays readable when edited by hand.
func EncodeDocument(animals []Animal) ([]byte, error) {
	if animals == nil {
		animals = []Animal{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Animals: animals}); err != nil {
		return nil, fmt.Errorf("encode animal document: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DecodeDocument parses an encoded Document. The "animals" key is required;
// records themselves are trusted and not validated.
func DecodeDocument(data []byte) ([]Animal, error) {
	var doc struct {
		Animals *[]Animal `json:"animals"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode animal document: %w", err)
	}
	if doc.Animals == nil {
		return nil, errors.New("decode animal document: missing \"animals\" array")
	}
	return *doc.Animals, nil
}
