package vault

import (
	"path"
	"slices"
	"strings"

	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/fieldmap"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/task"
	"gopkg.in/yaml.v3"
)

// decodeTask reads the canonical fields out of a frontmatter mapping.
// Property names are resolved through the mapper; unknown keys are ignored.
func decodeTask(id string, front *yaml.Node, fields *fieldmap.Mapper) task.Task {
	t := task.Task{ID: id, Title: defaultTitle(id)}

	for i := 0; i+1 < len(front.Content); i += 2 {
		f, ok := fields.LookupCanonicalField(front.Content[i].Value)
		if !ok {
			continue
		}
		v := front.Content[i+1]

		switch f {
		case fieldmap.FieldTitle:
			if s := scalar(v); s != "" {
				t.Title = s
			}
		case fieldmap.FieldStatus:
			t.Status = scalar(v)
		case fieldmap.FieldPriority:
			t.Priority = scalar(v)
		case fieldmap.FieldDue:
			t.Due = scalar(v)
		case fieldmap.FieldScheduled:
			t.Scheduled = scalar(v)
		case fieldmap.FieldTags:
			t.Tags = stringList(v)
		case fieldmap.FieldContexts:
			t.Contexts = stringList(v)
		case fieldmap.FieldProjects:
			t.Projects = stringList(v)
		case fieldmap.FieldRecurrence:
			t.Recurrence = scalar(v)
		case fieldmap.FieldCompleteInstances:
			t.CompleteInstances = stringList(v)
		case fieldmap.FieldBlockedBy:
			t.BlockedBy = dependencies(v)
		case fieldmap.FieldDateCreated:
			t.DateCreated = scalar(v)
		case fieldmap.FieldDateModified:
			t.DateModified = scalar(v)
		case fieldmap.FieldCompletedDate:
			t.CompletedDate = scalar(v)
		}
	}
	return t
}

// encodeTask writes the fields of t that differ from old into front.
// Untouched properties keep their original formatting and position.
func encodeTask(front *yaml.Node, old, t task.Task, fields *fieldmap.Mapper) {
	put := func(f fieldmap.Field, v *yaml.Node) {
		setField(front, fields, f, v)
	}

	if t.Title != old.Title {
		if t.Title == defaultTitle(t.ID) {
			put(fieldmap.FieldTitle, nil)
		} else {
			put(fieldmap.FieldTitle, scalarNode(t.Title))
		}
	}
	scalars := []struct {
		field    fieldmap.Field
		old, new string
	}{
		{fieldmap.FieldStatus, old.Status, t.Status},
		{fieldmap.FieldPriority, old.Priority, t.Priority},
		{fieldmap.FieldDue, old.Due, t.Due},
		{fieldmap.FieldScheduled, old.Scheduled, t.Scheduled},
		{fieldmap.FieldRecurrence, old.Recurrence, t.Recurrence},
		{fieldmap.FieldDateCreated, old.DateCreated, t.DateCreated},
		{fieldmap.FieldDateModified, old.DateModified, t.DateModified},
		{fieldmap.FieldCompletedDate, old.CompletedDate, t.CompletedDate},
	}
	for _, s := range scalars {
		if s.old != s.new {
			put(s.field, optionalScalar(s.new))
		}
	}

	lists := []struct {
		field    fieldmap.Field
		old, new []string
	}{
		{fieldmap.FieldTags, old.Tags, t.Tags},
		{fieldmap.FieldContexts, old.Contexts, t.Contexts},
		{fieldmap.FieldProjects, old.Projects, t.Projects},
		{fieldmap.FieldCompleteInstances, old.CompleteInstances, t.CompleteInstances},
	}
	for _, l := range lists {
		if !slices.Equal(l.old, l.new) {
			put(l.field, optionalList(l.new))
		}
	}

	if !slices.Equal(old.BlockedBy, t.BlockedBy) {
		if len(t.BlockedBy) == 0 {
			put(fieldmap.FieldBlockedBy, nil)
		} else {
			put(fieldmap.FieldBlockedBy, dependencyList(t.BlockedBy))
		}
	}
}

// setField replaces the value of the property mapped to f, appending it
// under the configured name when absent. A nil value removes the property.
func setField(front *yaml.Node, fields *fieldmap.Mapper, f fieldmap.Field, v *yaml.Node) {
	for i := 0; i+1 < len(front.Content); i += 2 {
		if !fields.IsPropertyForField(front.Content[i].Value, f) {
			continue
		}
		if v == nil {
			front.Content = append(front.Content[:i], front.Content[i+2:]...)
		} else {
			front.Content[i+1] = v
		}
		return
	}
	if v != nil {
		front.Content = append(front.Content, scalarNode(fields.ToUserField(f)), v)
	}
}

func scalar(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return ""
	}
	return strings.TrimSpace(n.Value)
}

// stringList accepts a sequence of scalars or a single scalar
func stringList(n *yaml.Node) []string {
	switch n.Kind {
	case yaml.ScalarNode:
		if s := scalar(n); s != "" {
			return []string{s}
		}
	case yaml.SequenceNode:
		var out []string
		for _, item := range n.Content {
			if s := scalar(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// dependencies accepts plain links and {uid, reltype, gap} objects
func dependencies(n *yaml.Node) []task.Dependency {
	items := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		items = n.Content
	}

	var out []task.Dependency
	for _, item := range items {
		var d task.Dependency
		switch item.Kind {
		case yaml.ScalarNode, yaml.SequenceNode:
			d.TargetID = linkTarget(linkText(item))
		case yaml.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				v := scalar(item.Content[i+1])
				switch strings.ToLower(item.Content[i].Value) {
				case "uid":
					d.TargetID = linkTarget(linkText(item.Content[i+1]))
				case "reltype":
					d.RelType = task.ParseRelType(v)
				case "gap":
					d.Gap = v
				}
			}
		}
		if d.TargetID == "" {
			continue
		}
		if d.RelType == "" {
			d.RelType = task.RelFinishToStart
		}
		out = append(out, d)
	}
	return out
}

// linkText reads a link that may have been written unquoted, in which case
// YAML parses [[x]] as a nested flow sequence
func linkText(n *yaml.Node) string {
	if n.Kind == yaml.SequenceNode && len(n.Content) == 1 {
		inner := n.Content[0]
		if inner.Kind == yaml.SequenceNode && len(inner.Content) == 1 {
			return scalar(inner.Content[0])
		}
		return scalar(inner)
	}
	return scalar(n)
}

func dependencyList(deps []task.Dependency) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, d := range deps {
		m := &yaml.Node{Kind: yaml.MappingNode}
		m.Content = append(m.Content, scalarNode("uid"), scalarNode(link(d.TargetID)))
		rel := d.RelType
		if rel == "" {
			rel = task.RelFinishToStart
		}
		m.Content = append(m.Content, scalarNode("reltype"), scalarNode(rel.String()))
		if d.Gap != "" {
			m.Content = append(m.Content, scalarNode("gap"), scalarNode(d.Gap))
		}
		seq.Content = append(seq.Content, m)
	}
	return seq
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}

func optionalScalar(s string) *yaml.Node {
	if s == "" {
		return nil
	}
	return scalarNode(s)
}

func optionalList(items []string) *yaml.Node {
	if len(items) == 0 {
		return nil
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, s := range items {
		seq.Content = append(seq.Content, scalarNode(s))
	}
	return seq
}

// linkTarget turns "[[folder/Task|alias]]", "folder/Task" or "folder/Task.md"
// into the vault-relative id "folder/Task.md"
func linkTarget(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[[")
	s = strings.TrimSuffix(s, "]]")
	if i := strings.IndexAny(s, "|#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(s), ".md") {
		s += ".md"
	}
	return strings.TrimPrefix(path.Clean("/"+s), "/")
}

// link renders an id as a wikilink
func link(id string) string {
	return "[[" + strings.TrimSuffix(id, path.Ext(id)) + "]]"
}

// defaultTitle is the file name without extension
func defaultTitle(id string) string {
	base := path.Base(id)
	return strings.TrimSuffix(base, path.Ext(base))
}
