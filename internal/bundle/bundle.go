package bundle

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"voxelclimb/internal/level"
)

// CompressedExt is the conventional suffix of compressed bundles.
const CompressedExt = ".json.zst"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

//go:embed levels.schema.json
var levelSchema string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("levels.schema.json", levelSchema)
	})
	return schema, schemaErr
}

// Options controls how a bundle is written.
type Options struct {
	Compress bool
	Encode   level.EncodeOptions
}

// Validate checks encoded levels against the bundle schema.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile level schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parse bundle: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("validate bundle: %w", err)
	}
	return nil
}

// Write encodes data to w, compressing it when asked.
func Write(w io.Writer, data []byte, compress bool) error {
	if !compress {
		_, err := w.Write(data)
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("zstd encode: %w", err)
	}
	return enc.Close()
}

// Read returns the JSON held in r, decompressing zstd frames transparently.
func Read(r io.Reader) ([]byte, error) {
	br := bufio.NewReaderSize(r, 256*1024)
	head, _ := br.Peek(len(zstdMagic))
	if !bytes.Equal(head, zstdMagic) {
		return io.ReadAll(br)
	}
	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return data, nil
}

// WriteFile encodes levels and writes them to path, creating parent
// directories. The file is replaced atomically.
func WriteFile(path string, levels []*level.Level, opts Options) error {
	data, err := level.Encode(levels, opts.Encode)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriterSize(tmp, 256*1024)
	if err := Write(bw, data, opts.Compress); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace bundle: %w", err)
	}
	return nil
}

// ReadFile loads, validates and decodes the bundle at path.
func ReadFile(path string) ([]*level.Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := Read(f)
	if err != nil {
		return nil, err
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	return level.Decode(data)
}
