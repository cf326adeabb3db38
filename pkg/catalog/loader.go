package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for files whose extension maps to no decoder.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrDuplicateID is returned when two items share an identifier.
	ErrDuplicateID = errors.New("duplicate item id")
)

// document is the on-disk shape shared by every format.
type document struct {
	Items []Item `yaml:"items" json:"items" msgpack:"items"`
}

// Load reads, decodes and validates a catalog file.
func Load(path string) (*Catalog, error) {
	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer file.Close()

	items, err := Decode(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	if err := Validate(items); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	log.Debugf("Loaded %d items from %s (%s)", len(items), path, format)
	return New(items), nil
}

// Decode reads a catalog document in the given format.
func Decode(r io.Reader, format FileFormat) ([]Item, error) {
	var doc document

	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	return doc.Items, nil
}
