package catalog

import (
	"fmt"
	"os"
	"strings"
)

// DefaultGroupName names the group collecting lines before any header
const DefaultGroupName = "Words"

// ReadTextFile reads groups from a plain text word list
func ReadTextFile(filename string) ([]Group, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return ParseText(string(content)), nil
}

// ParseText parses the plain text word list format.
// Supports:
// - Group header: "## Group name" (starts a new group, ids count up from 1)
// - Comment: "# anything"
// - Word only: "ebullient"
// - With synonym: "ebullient = exuberant"
// - With synonym and sentence: "ebullient = exuberant | She was ebullient after the win."
//
// Entries before the first header land in a group named DefaultGroupName.
// Empty groups are dropped.
func ParseText(content string) []Group {
	var groups []Group
	var current *Group

	startGroup := func(name string) {
		if current != nil && len(current.Entries) > 0 {
			groups = append(groups, *current)
		}
		current = &Group{ID: len(groups) + 1, Name: name}
	}

	content = strings.ReplaceAll(content, "\r", "")
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "##") {
			name := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if name == "" {
				name = DefaultGroupName
			}
			startGroup(name)
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		entry, ok := parseEntryLine(line)
		if !ok {
			continue
		}
		if current == nil {
			startGroup(DefaultGroupName)
		}
		current.Entries = append(current.Entries, entry)
	}

	if current != nil && len(current.Entries) > 0 {
		groups = append(groups, *current)
	}

	return groups
}

func parseEntryLine(line string) (WordEntry, bool) {
	word, rest, hasRest := strings.Cut(line, "=")
	entry := WordEntry{Word: strings.TrimSpace(word)}
	if entry.Word == "" {
		// Lines like "= synonym" carry nothing to drill
		return WordEntry{}, false
	}
	if !hasRest {
		return entry, true
	}

	synonym, sentence, _ := strings.Cut(rest, "|")
	entry.Synonym = strings.TrimSpace(synonym)
	entry.Sentence = strings.TrimSpace(sentence)
	return entry, true
}

// FormatText renders groups back into the text format
func FormatText(groups []Group) string {
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "## %s\n", g.Name)
		for _, e := range g.Entries {
			b.WriteString(e.Word)
			if e.Synonym != "" || e.Sentence != "" {
				fmt.Fprintf(&b, " = %s", e.Synonym)
			}
			if e.Sentence != "" {
				fmt.Fprintf(&b, " | %s", e.Sentence)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
