package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	archerrors "archscope/internal/errors"
)

// Unit is a loaded compiled unit: the analyzed type set plus manifest data.
type Unit struct {
	Name  string
	Types []TypeMetadata
}

// Loader supplies the analyzed type set. The reference implementation reads
// a JSON dump; production loaders can wrap a real disassembler behind the
// same interface.
type Loader interface {
	Load() (*Unit, error)
}

// FileLoader reads a metadata dump from a JSON file. Paths ending in .zst
// are transparently decompressed.
type FileLoader struct {
	Path string
}

// NewFileLoader creates a loader for the given dump path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// dumpFile is the on-disk shape of a metadata dump
type dumpFile struct {
	Unit  string         `json:"unit,omitempty"`
	Types []TypeMetadata `json:"types"`
}

// Load reads and decodes the dump file.
func (l *FileLoader) Load() (*Unit, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, archerrors.New(archerrors.InputUnreadable,
			fmt.Sprintf("cannot open metadata dump %s", l.Path), err)
	}
	defer func() { _ = f.Close() }()

	var reader io.Reader = f
	if strings.HasSuffix(l.Path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, archerrors.New(archerrors.InputUnreadable,
				fmt.Sprintf("cannot decompress metadata dump %s", l.Path), err)
		}
		defer dec.Close()
		reader = dec
	}

	var dump dumpFile
	if err := json.NewDecoder(reader).Decode(&dump); err != nil {
		return nil, archerrors.New(archerrors.InputUnreadable,
			fmt.Sprintf("cannot decode metadata dump %s", l.Path), err)
	}

	unit := &Unit{
		Name:  dump.Unit,
		Types: dump.Types,
	}
	if unit.Name == "" {
		unit.Name = l.Path
	}
	return unit, nil
}
