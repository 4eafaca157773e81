package calltree

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat = errors.New("unknown call tree format")
	ErrEmptyTree     = errors.New("call tree has no root method")
)

type decodeFunc func(data []byte, root *Call) error

var decoders = map[string]decodeFunc{
	".json":    decodeYAML,
	".yaml":    decodeYAML,
	".yml":     decodeYAML,
	".toml":    decodeTOML,
	".msgpack": decodeMsgpack,
	".mpk":     decodeMsgpack,
}

// Load reads a call tree from path. The decoder is chosen by file extension.
// Trees recorded without sequence numbers are numbered in pre-order.
func Load(path string) (*Call, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read call tree %s: %w", path, err)
	}
	root, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to load call tree %s: %w", path, err)
	}
	return root, nil
}

// Decode parses data in the format named by ext (".yaml", ".toml", ...).
func Decode(ext string, data []byte) (*Call, error) {
	decode, ok := decoders[strings.ToLower(ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	root := &Call{}
	if err := decode(data, root); err != nil {
		return nil, err
	}
	if root.IsEmpty() {
		return nil, ErrEmptyTree
	}
	if !numbered(root) {
		Number(root)
	}
	return root, nil
}

func decodeYAML(data []byte, root *Call) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(root); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, root *Call) error {
	md, err := toml.Decode(string(data), root)
	if err != nil {
		return fmt.Errorf("failed to parse toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("failed to parse toml: unknown key %q", undecoded[0].String())
	}
	return nil
}

func decodeMsgpack(data []byte, root *Call) error {
	if err := msgpack.Unmarshal(data, root); err != nil {
		return fmt.Errorf("failed to parse msgpack: %w", err)
	}
	return nil
}
