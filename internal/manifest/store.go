package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muhammadmuzzammil1998/jsonc"
)

// DefaultStoreFile is the store file name written at the library root.
const DefaultStoreFile = "manifest.json"

// Parse decodes a store document. Comments and trailing commas are
// tolerated. The document is checked against the store schema and every
// manifest's invariants; any failure is reported as ErrCorruptManifest.
func Parse(data []byte) (Store, error) {
	clean := jsonc.ToJSON(data)

	if err := checkSchema(clean); err != nil {
		return nil, err
	}

	var store Store
	if err := json.Unmarshal(clean, &store); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptManifest, err)
	}
	if err := store.Validate(); err != nil {
		return nil, err
	}
	return store, nil
}

// Load reads and parses the store file at path.
func Load(path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Classify("read", path, err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading manifest store %s: %w", path, err)
	}
	return store, nil
}

// Marshal encodes the store as indented JSON. Template names and file keys
// come out sorted; Dirs keep their order.
func Marshal(store Store) ([]byte, error) {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest store: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the store to path, creating the parent directory if needed.
func Save(path string, store Store) error {
	data, err := Marshal(store)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Classify("mkdir", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Classify("write", path, err)
	}
	return nil
}

func fmtTemplate(name string, err error) error {
	return fmt.Errorf("template %q: %w", name, err)
}
