package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	gderrors "github.com/matzehuels/graphdiff/pkg/errors"
)

// Encoding selects the text format of a graph document.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// EncodingForPath infers the encoding from a file extension.
// Unknown extensions default to JSON.
func EncodingForPath(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingJSON
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a Graph to an indented JSON document.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf, EncodingJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a JSON document into a validated Graph.
func Unmarshal(data []byte) (*Graph, error) {
	return Read(bytes.NewReader(data), EncodingJSON)
}

// Write encodes g to w in the given encoding.
func Write(g *Graph, w io.Writer, enc Encoding) error {
	doc := ToDocument(g)
	switch enc {
	case EncodingYAML:
		ye := yaml.NewEncoder(w)
		ye.SetIndent(2)
		if err := ye.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return ye.Close()
	default:
		je := json.NewEncoder(w)
		je.SetIndent("", "  ")
		if err := je.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// Read decodes a document from r and builds a validated Graph.
func Read(r io.Reader, enc Encoding) (*Graph, error) {
	var doc Document
	switch enc {
	case EncodingYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, gderrors.Wrap(gderrors.ErrCodeInvalidGraph, err, "decode yaml")
		}
	default:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, gderrors.Wrap(gderrors.ErrCodeInvalidGraph, err, "decode json")
		}
	}
	g, err := FromDocument(doc)
	if err != nil {
		if gderrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, gderrors.Wrap(gderrors.ErrCodeInvalidGraph, err, "build graph")
	}
	return g, nil
}

// ReadFile reads a JSON or YAML graph document, chosen by extension.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gderrors.Wrap(gderrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Read(f, EncodingForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteFile writes g to path in the encoding matching its extension.
// The file is created with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f, EncodingForPath(path))
}
