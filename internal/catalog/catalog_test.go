package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testGroups() []Group {
	return []Group{
		{ID: 1, Name: "Group 1", Entries: []WordEntry{
			{Word: "ebullient", Synonym: "exuberant", Sentence: "She was ebullient."},
			{Word: "terse", Synonym: "concise", Sentence: "His reply was terse."},
		}},
		{ID: 7, Name: "Group 7", Entries: []WordEntry{
			{Word: "lucid", Synonym: "clear", Sentence: "A lucid talk."},
		}},
	}
}

func TestNewStatic(t *testing.T) {
	c, err := NewStatic(testGroups())
	if err != nil {
		t.Fatalf("NewStatic() unexpected error: %v", err)
	}

	if got := len(c.Groups()); got != 2 {
		t.Errorf("Expected 2 groups, got %d", got)
	}

	g, ok := c.Group(7)
	if !ok {
		t.Fatal("Expected group 7 to exist")
	}
	if g.Name != "Group 7" || g.Len() != 1 {
		t.Errorf("Unexpected group 7: %+v", g)
	}

	if _, ok := c.Group(3); ok {
		t.Error("Expected group 3 to be missing")
	}
}

func TestNewStaticDuplicateID(t *testing.T) {
	groups := []Group{{ID: 1, Name: "a"}, {ID: 1, Name: "b"}}
	if _, err := NewStatic(groups); err == nil {
		t.Error("Expected error for duplicate group ids")
	}
}

func TestStaticIsImmutable(t *testing.T) {
	groups := testGroups()
	c, err := NewStatic(groups)
	if err != nil {
		t.Fatalf("NewStatic() unexpected error: %v", err)
	}

	groups[0].Entries[0].Word = "changed"
	g, _ := c.Group(1)
	if g.Entries[0].Word != "ebullient" {
		t.Errorf("Catalog changed through caller slice: %q", g.Entries[0].Word)
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{"groups":[{"id":1,"name":"Group 1","words":[
		{"word":"ebullient","synonym":"exuberant","sentence":"She was ebullient."}]}]}`)

	groups, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() unexpected error: %v", err)
	}
	want := []Group{{ID: 1, Name: "Group 1", Entries: []WordEntry{
		{Word: "ebullient", Synonym: "exuberant", Sentence: "She was ebullient."},
	}}}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("ParseJSON() = %+v, want %+v", groups, want)
	}

	if _, err := ParseJSON([]byte("{not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestLoadFormats(t *testing.T) {
	tmpDir := t.TempDir()

	yamlPath := filepath.Join(tmpDir, "words.yaml")
	if err := WriteYAMLFile(yamlPath, testGroups()); err != nil {
		t.Fatalf("WriteYAMLFile() failed: %v", err)
	}

	textPath := filepath.Join(tmpDir, "words.txt")
	if err := os.WriteFile(textPath, []byte(FormatText(testGroups())), 0644); err != nil {
		t.Fatalf("Failed to write text catalog: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "words.db")
	store, err := OpenStore(dbPath)
	if err != nil {
		t.Fatalf("OpenStore() failed: %v", err)
	}
	if err := store.Import(testGroups()); err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	store.Close()

	tests := []struct {
		name    string
		path    string
		wantIDs []int
	}{
		{"yaml", yamlPath, []int{1, 7}},
		// Text ids are positional
		{"text", textPath, []int{1, 2}},
		{"sqlite", dbPath, []int{1, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(tt.path)
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			groups := c.Groups()
			if len(groups) != len(tt.wantIDs) {
				t.Fatalf("Expected %d groups, got %d", len(tt.wantIDs), len(groups))
			}
			for i, id := range tt.wantIDs {
				if groups[i].ID != id {
					t.Errorf("Group %d id = %d, want %d", i, groups[i].ID, id)
				}
			}
			if !reflect.DeepEqual(groups[0].Entries, testGroups()[0].Entries) {
				t.Errorf("Entries mismatch: %+v", groups[0].Entries)
			}
		})
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("words.csv"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() failed: %v", err)
	}

	groups := c.Groups()
	if len(groups) == 0 {
		t.Fatal("Default catalog is empty")
	}
	if groups[0].Entries[0].Word != "ebullient" {
		t.Errorf("Expected first word 'ebullient', got %q", groups[0].Entries[0].Word)
	}
	for _, g := range groups {
		for _, e := range g.Entries {
			if e.Word == "" || e.Synonym == "" || e.Sentence == "" {
				t.Errorf("Incomplete entry in group %d: %+v", g.ID, e)
			}
		}
	}
}
