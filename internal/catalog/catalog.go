package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// WordEntry is a single vocabulary item
type WordEntry struct {
	Word     string `json:"word" yaml:"word"`
	Synonym  string `json:"synonym" yaml:"synonym"`
	Sentence string `json:"sentence" yaml:"sentence"`
}

// Group is a named, ordered list of entries
type Group struct {
	ID      int         `json:"id" yaml:"id"`
	Name    string      `json:"name" yaml:"name"`
	Entries []WordEntry `json:"words" yaml:"words"`
}

// Len returns the number of entries in the group
func (g Group) Len() int {
	return len(g.Entries)
}

// Catalog is the read-only view the playback controller depends on
type Catalog interface {
	// Groups returns all groups in display order
	Groups() []Group

	// Group looks up a group by its id
	Group(id int) (Group, bool)
}

// Static is an in-memory catalog. It never changes after construction.
type Static struct {
	groups []Group
	byID   map[int]int
}

// NewStatic creates a catalog from the given groups. Group ids must be unique.
func NewStatic(groups []Group) (*Static, error) {
	s := &Static{
		groups: make([]Group, 0, len(groups)),
		byID:   make(map[int]int, len(groups)),
	}

	for _, g := range groups {
		if _, dup := s.byID[g.ID]; dup {
			return nil, fmt.Errorf("duplicate group id %d", g.ID)
		}
		entries := make([]WordEntry, len(g.Entries))
		copy(entries, g.Entries)
		g.Entries = entries

		s.byID[g.ID] = len(s.groups)
		s.groups = append(s.groups, g)
	}

	return s, nil
}

// Groups returns a copy of the group list
func (s *Static) Groups() []Group {
	return append([]Group{}, s.groups...)
}

// Group looks up a group by id
func (s *Static) Group(id int) (Group, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Group{}, false
	}
	return s.groups[i], true
}

// Load reads a catalog file, choosing the format from the file extension
func Load(path string) (*Static, error) {
	var (
		groups []Group
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		groups, err = ReadJSONFile(path)
	case ".yaml", ".yml":
		groups, err = ReadYAMLFile(path)
	case ".txt", ".words":
		groups, err = ReadTextFile(path)
	case ".db", ".sqlite", ".sqlite3":
		var store *Store
		store, err = OpenStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		groups, err = store.Groups()
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return NewStatic(groups)
}
