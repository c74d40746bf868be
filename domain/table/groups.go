package table

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// CopyGroup is a named, half-open range [Start, End) of body rows that can
// be copied in one action.
type CopyGroup struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`
	Start int    `yaml:"start" json:"start"`
	End   int    `yaml:"end" json:"end"`
}

// Len returns the number of rows the group spans
func (g CopyGroup) Len() int {
	if g.End < g.Start {
		return 0
	}
	return g.End - g.Start
}

// DefaultCopyGroups returns the four standard groups: rows [0,3), [3,5),
// [5,7) and [7,9).
func DefaultCopyGroups() []CopyGroup {
	return []CopyGroup{
		{Name: "first", Label: "Copy first group", Start: 0, End: 3},
		{Name: "second", Label: "Copy second group", Start: 3, End: 5},
		{Name: "third", Label: "Copy third group", Start: 5, End: 7},
		{Name: "fourth", Label: "Copy fourth group", Start: 7, End: 9},
	}
}

type copyGroupsFile struct {
	Groups []CopyGroup `yaml:"groups"`
}

// ParseCopyGroups decodes a YAML document of the form
//
//	groups:
//	  - name: first
//	    label: Copy first group
//	    start: 0
//	    end: 3
func ParseCopyGroups(data []byte) ([]CopyGroup, error) {
	var file copyGroupsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode copy groups: %w", err)
	}
	for i := range file.Groups {
		if file.Groups[i].Label == "" {
			file.Groups[i].Label = "Copy " + file.Groups[i].Name
		}
	}
	if err := ValidateCopyGroups(file.Groups); err != nil {
		return nil, err
	}
	return file.Groups, nil
}

// ValidateCopyGroups rejects unnamed, duplicate, negative or inverted ranges
func ValidateCopyGroups(groups []CopyGroup) error {
	if len(groups) == 0 {
		return fmt.Errorf("at least one copy group is required")
	}
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return fmt.Errorf("copy group name cannot be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate copy group %q", name)
		}
		seen[name] = true
		if g.Start < 0 {
			return fmt.Errorf("copy group %q: start must not be negative", name)
		}
		if g.End < g.Start {
			return fmt.Errorf("copy group %q: end %d is before start %d", name, g.End, g.Start)
		}
	}
	return nil
}
