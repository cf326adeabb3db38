package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileFormat represents the supported catalog file encodings
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatYAML
	FormatJSON
	FormatMsgpack
)

// FormatInfo contains metadata about a catalog file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatYAML: {
		Format:      FormatYAML,
		Description: "YAML Catalog",
		Extensions:  []string{".yaml", ".yml"},
		MinSize:     1,
	},
	FormatJSON: {
		Format:      FormatJSON,
		Description: "JSON Catalog",
		Extensions:  []string{".json"},
		MinSize:     2, // "{}" or "[]"
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "Msgpack Catalog",
		Extensions:  []string{".msgpack", ".mpk", ".bin"},
		MinSize:     1,
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// DetectFileFormat picks the format from the file extension and checks the
// file is large enough to hold a document of that kind.
func DetectFileFormat(filename string) (FileFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	for _, info := range supportedFormats {
		for _, candidate := range info.Extensions {
			if ext != candidate {
				continue
			}
			if err := validateFileSize(filename, info); err != nil {
				return FormatUnknown, err
			}
			return info.Format, nil
		}
	}

	return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

func validateFileSize(filename string, info FormatInfo) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), info.Description, info.MinSize)
	}
	return nil
}
