package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a document file.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Read decodes a document from r. The returned document has no parent links
// yet; pass it to [NewHost] before extracting flows.
//
//	{
//	  "name": "Shop",
//	  "pages": [{
//	    "id": "0:1", "name": "Checkout",
//	    "flowStartingPoints": [{"nodeId": "1:1"}],
//	    "children": [{
//	      "id": "1:1", "name": "Cart", "type": "FRAME", "width": 375, "height": 812,
//	      "children": [{
//	        "id": "1:2", "name": "Pay", "type": "INSTANCE",
//	        "reactions": [{"trigger": {"type": "ON_CLICK"},
//	                       "action": {"destinationId": "2:1", "navigation": "NAVIGATE"}}]
//	      }]
//	    }]
//	  }]
//	}
func Read(r io.Reader, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q", format)
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("document %q has no pages", doc.Name)
	}
	return &doc, nil
}

// Load reads a document file, choosing the decoder from its extension.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// Open loads a document file and wraps it in a [DocumentHost] whose images
// resolve relative to the file.
func Open(path string, opts ...HostOption) (*DocumentHost, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	opts = append([]HostOption{WithBaseDir(filepath.Dir(path))}, opts...)
	return NewHost(doc, opts...)
}
