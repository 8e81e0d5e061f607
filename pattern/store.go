package pattern

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Store keeps patterns as RLE files in a directory
type Store struct {
	dir string
}

// NewStore returns a store rooted at the given directory. The directory
// is created on first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the pattern under a slug of its name
func (s *Store) Save(p *Pattern) error {
	name := slug(p.Name)
	if name == "" {
		return errors.New("[Save] pattern has no name")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "[Save] failed to create directory: %+v", s.dir)
	}
	path := filepath.Join(s.dir, name+".rle")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[Save] failed to create file: %+v", path)
	}
	defer f.Close()
	if err = Encode(f, p); err != nil {
		return errors.Wrapf(err, "[Save] failed to encode pattern: %+v", p.Name)
	}
	return nil
}

// Load reads a stored pattern by name or slug
func (s *Store) Load(name string) (*Pattern, error) {
	path := filepath.Join(s.dir, slug(name)+".rle")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] failed to open file: %+v", path)
	}
	defer f.Close()
	p, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] failed to decode file: %+v", path)
	}
	return p, nil
}

// List returns the slugs of every stored pattern, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "[List] failed to read directory: %+v", s.dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".rle") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".rle"))
	}
	slices.Sort(names)
	return names, nil
}

// slug lowers a pattern name to a safe file stem
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
