package sequence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/preshow-cli/preshow/filesystem"
)

// SaveVersion is the version written into sequence files.
const SaveVersion = 2

const settingShowInDialog = "show_in_dialog"

// Document is a sequence: the ordered items plus the conditions under which
// it is picked for a feature.
type Document struct {
	Name       string
	PathName   string
	Active     bool
	Items      []*Item
	Attributes Attributes
	Settings   map[string]any

	loadPath string
}

type fileFormat struct {
	Version    int            `json:"version"`
	Name       string         `json:"name"`
	Active     bool           `json:"active"`
	Items      []itemFormat   `json:"items"`
	Attributes Attributes     `json:"attributes"`
	Settings   map[string]any `json:"settings,omitempty"`
}

type itemFormat struct {
	Type     string         `json:"type" jsonschema:"enum=feature,enum=trivia,enum=slideshow,enum=trailer,enum=video,enum=audioformat,enum=action,enum=command"`
	Enabled  *bool          `json:"enabled,omitempty"`
	Name     string         `json:"name"`
	Settings map[string]any `json:"settings"`
}

// New returns an empty, active document.
func New(name string) *Document {
	return &Document{Name: name, Active: true, Settings: make(map[string]any)}
}

// Load decodes a sequence from JSON, or from the legacy XML layout when the
// payload is not JSON. pathName names the document when it carries no name.
func Load(data []byte, pathName string) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DocumentError{Path: pathName, Err: ErrEmptySequenceFile}
	}

	doc := &Document{PathName: pathName, Name: pathName, Settings: make(map[string]any)}

	var raw fileFormat
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		if trimmed[0] == '{' {
			return nil, badFile(pathName, err)
		}

		items, xerr := decodeLegacyXML(trimmed)
		if xerr != nil {
			return nil, badFile(pathName, xerr)
		}
		doc.Items = items
		return doc, nil
	}

	if raw.Name != "" {
		doc.Name = raw.Name
	}
	doc.Active = raw.Active
	doc.Attributes = raw.Attributes
	doc.Attributes.normalize()
	if raw.Settings != nil {
		doc.Settings = raw.Settings
	}

	for i, f := range raw.Items {
		it, err := f.decode()
		if err != nil {
			return nil, badFile(pathName, fmt.Errorf("item %d: %w", i, err))
		}
		doc.Items = append(doc.Items, it)
	}

	return doc, nil
}

func (f itemFormat) decode() (*Item, error) {
	kind, ok := ParseKind(f.Type)
	if !ok {
		return nil, fmt.Errorf("unknown item type %q, did you mean %q?", f.Type, ClosestTag(f.Type))
	}

	it := NewItem(kind)
	it.Name = f.Name
	if f.Enabled != nil {
		it.Enabled = *f.Enabled
	}

	for attr, v := range f.Settings {
		if _, known := kind.Element(attr); !known {
			continue
		}
		if err := it.Set(attr, v); err != nil {
			return nil, err
		}
	}
	return it, nil
}

// LoadFile reads a sequence file through the filesystem backend.
func LoadFile(path string) (*Document, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}

	doc, err := Load(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	doc.loadPath = path
	return doc, nil
}

// Serialize encodes the document as versioned JSON.
func (d *Document) Serialize() ([]byte, error) {
	out := fileFormat{
		Version:    SaveVersion,
		Name:       d.Name,
		Active:     d.Active,
		Items:      make([]itemFormat, 0, len(d.Items)),
		Attributes: d.Attributes,
		Settings:   d.Settings,
	}

	for _, it := range d.Items {
		enabled := it.Enabled
		out.Items = append(out.Items, itemFormat{
			Type:     it.Kind.String(),
			Enabled:  &enabled,
			Name:     it.Name,
			Settings: it.Settings(),
		})
	}

	return json.MarshalIndent(out, "", " ")
}

// Save writes the document to path, or back to the file it was loaded from,
// and reads it again to make sure it decodes.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.loadPath
	}
	if path == "" {
		return &DocumentError{Path: d.Name, Err: fmt.Errorf("no path to save to")}
	}

	data, err := d.Serialize()
	if err != nil {
		return &DocumentError{Path: path, Err: err}
	}

	if err := filesystem.API().MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &DocumentError{Path: path, Err: err}
	}
	if err := filesystem.API().WriteFile(path, data, 0o644); err != nil {
		return &DocumentError{Path: path, Err: err}
	}

	if _, err := LoadFile(path); err != nil {
		return fmt.Errorf("verify written sequence: %w", err)
	}

	d.loadPath = path
	if d.PathName == "" {
		d.PathName = filepath.Base(path)
	}
	if d.Name == "" {
		d.Name = d.PathName
	}
	return nil
}

// Path is the file the document was loaded from or last saved to.
func (d *Document) Path() string {
	return d.loadPath
}

// VisibleInDialog reports whether the sequence is offered for manual
// selection. Documents are visible unless the setting says otherwise.
func (d *Document) VisibleInDialog() bool {
	v, ok := d.Settings[settingShowInDialog].(bool)
	if !ok {
		return true
	}
	return v
}

// SetVisibleInDialog stores the dialog visibility setting.
func (d *Document) SetVisibleInDialog(v bool) {
	if d.Settings == nil {
		d.Settings = make(map[string]any)
	}
	d.Settings[settingShowInDialog] = v
}

// HasFeature reports whether any item plays a feature.
func (d *Document) HasFeature() bool {
	return d.FeatureCount() > 0
}

// FeatureCount counts the feature items.
func (d *Document) FeatureCount() int {
	n := 0
	for _, it := range d.Items {
		if it.Kind == Feature {
			n++
		}
	}
	return n
}

// Validate lists problems that do not prevent a run: a missing feature item
// and settings outside their domain.
func (d *Document) Validate() []string {
	var issues []string
	if !d.HasFeature() {
		issues = append(issues, "sequence has no feature item")
	}

	for i, it := range d.Items {
		for _, e := range it.Kind.Elements() {
			v, ok := it.settings[e.Attr]
			if !ok {
				continue
			}
			if !e.Limit.Allows(v) {
				issues = append(issues, fmt.Sprintf("item %d (%s): %s=%v outside %s", i, it.Display(), e.Attr, v, e.Limit))
			}
		}
		if it.Kind == Command && it.rawString("command") != "" && it.rawString("condition") == "" {
			issues = append(issues, fmt.Sprintf("item %d (%s): loop without condition never ends", i, it.Display()))
		}
	}

	return issues
}
