package deck

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
)

//go:embed assets/base
var baseAssets embed.FS

// baseParts maps embedded asset names onto their package part names, in the
// order they are written.
var baseParts = []struct{ asset, part string }{
	{"content_types.xml", "[Content_Types].xml"},
	{"root.rels", "_rels/.rels"},
	{"core.xml", "docProps/core.xml"},
	{"app.xml", "docProps/app.xml"},
	{"presentation.xml", "ppt/presentation.xml"},
	{"presentation.xml.rels", "ppt/_rels/presentation.xml.rels"},
	{"presProps.xml", "ppt/presProps.xml"},
	{"viewProps.xml", "ppt/viewProps.xml"},
	{"tableStyles.xml", "ppt/tableStyles.xml"},
	{"theme1.xml", "ppt/theme/theme1.xml"},
	{"slideMaster1.xml", "ppt/slideMasters/slideMaster1.xml"},
	{"slideMaster1.xml.rels", "ppt/slideMasters/_rels/slideMaster1.xml.rels"},
	{"slideLayout1.xml", "ppt/slideLayouts/slideLayout1.xml"},
	{"slideLayout1.xml.rels", "ppt/slideLayouts/_rels/slideLayout1.xml.rels"},
	{"slide1.xml", "ppt/slides/slide1.xml"},
	{"slide1.xml.rels", "ppt/slides/_rels/slide1.xml.rels"},
}

// BaseTemplate returns the built-in blank 16:9 presentation with one empty
// placeholder slide.
func BaseTemplate() []byte {
	data, err := buildBaseTemplate()
	if err != nil {
		panic(fmt.Sprintf("deck: embedded template: %v", err))
	}
	return data
}

func buildBaseTemplate() ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, entry := range baseParts {
		data, err := baseAssets.ReadFile(path.Join("assets/base", entry.asset))
		if err != nil {
			_ = writer.Close()
			return nil, err
		}
		if err := writePart(writer, entry.part, data, zip.Deflate); err != nil {
			_ = writer.Close()
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var defaultTemplate = sync.OnceValues(func() (*Template, error) {
	return ParseTemplate(BaseTemplate())
})

// Template is a parsed .pptx whose masters, layouts and theme are reused for
// generated decks. Its own slides are dropped.
type Template struct {
	parts        map[string][]byte
	defaults     []ctDefault
	overrides    []ctOverride
	masters      []masterRef
	presRels     []relationship
	layoutTarget string
	width        int64
	height       int64
}

type masterRef struct {
	id     string
	target string
}

// LoadTemplate reads a .pptx from disk.
func LoadTemplate(filename string) (*Template, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate opens a .pptx package held in memory.
func ParseTemplate(data []byte) (*Template, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}

	raw := make(map[string][]byte, len(reader.File))
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("read template entry %s: %w", file.Name, err)
		}
		payload, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read template entry %s: %w", file.Name, err)
		}
		raw[file.Name] = payload
	}

	t := &Template{parts: make(map[string][]byte), width: defaultSlideCX, height: defaultSlideCY}
	for name, payload := range raw {
		if !shouldSkipTemplateEntry(name) {
			t.parts[name] = payload
		}
	}

	var types contentTypes
	if err := decodePart(raw, "[Content_Types].xml", &types); err != nil {
		return nil, err
	}
	t.defaults = types.Defaults
	for _, override := range types.Overrides {
		if _, ok := t.parts[strings.TrimPrefix(override.PartName, "/")]; ok {
			t.overrides = append(t.overrides, override)
		}
	}

	var pres presentationPart
	if err := decodePart(raw, "ppt/presentation.xml", &pres); err != nil {
		return nil, err
	}
	if pres.Size.CX > 0 && pres.Size.CY > 0 {
		t.width, t.height = pres.Size.CX, pres.Size.CY
	}

	var rels relationships
	if err := decodePart(raw, "ppt/_rels/presentation.xml.rels", &rels); err != nil {
		return nil, err
	}
	targets := make(map[string]relationship, len(rels.Items))
	for _, rel := range rels.Items {
		targets[rel.ID] = rel
		switch path.Base(rel.Type) {
		case "slideMaster", "slide", "notesMaster", "handoutMaster":
		default:
			if _, ok := t.parts[path.Join("ppt", rel.Target)]; ok {
				t.presRels = append(t.presRels, rel)
			}
		}
	}
	for _, master := range pres.Masters {
		rel, ok := targets[master.RID]
		if !ok {
			return nil, fmt.Errorf("template master %s has no relationship", master.RID)
		}
		t.masters = append(t.masters, masterRef{id: master.ID, target: rel.Target})
	}
	if len(t.masters) == 0 {
		return nil, fmt.Errorf("template has no slide master")
	}

	t.layoutTarget = t.pickLayout()
	if t.layoutTarget == "" {
		return nil, fmt.Errorf("template has no slide layout")
	}
	return t, nil
}

// pickLayout prefers the first blank layout, else the first layout.
func (t *Template) pickLayout() string {
	var layouts []string
	for name := range t.parts {
		if strings.HasPrefix(name, "ppt/slideLayouts/") && strings.HasSuffix(name, ".xml") && !strings.Contains(name, "/_rels/") {
			layouts = append(layouts, name)
		}
	}
	sort.Slice(layouts, func(i, j int) bool {
		ni, nj := partNumber(layouts[i]), partNumber(layouts[j])
		if ni != nj {
			return ni < nj
		}
		return layouts[i] < layouts[j]
	})
	for _, name := range layouts {
		if bytes.Contains(t.parts[name], []byte(`type="blank"`)) {
			return strings.TrimPrefix(name, "ppt/")
		}
	}
	if len(layouts) > 0 {
		return strings.TrimPrefix(layouts[0], "ppt/")
	}
	return ""
}

// Size returns the slide width and height in EMU.
func (t *Template) Size() (int64, int64) {
	return t.width, t.height
}

func shouldSkipTemplateEntry(name string) bool {
	switch name {
	case "[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels":
		return true
	}
	for _, prefix := range []string{
		"docProps/",
		"ppt/slides/",
		"ppt/notesSlides/",
		"ppt/notesMasters/",
		"ppt/handoutMasters/",
		"ppt/comments/",
	} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	// pictures of a deck generated earlier and reused as a template
	return strings.HasPrefix(name, "ppt/media/cassandra_image")
}

func decodePart(parts map[string][]byte, name string, into any) error {
	payload, ok := parts[name]
	if !ok {
		return fmt.Errorf("template is missing %s", name)
	}
	if err := xml.Unmarshal(payload, into); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func partNumber(name string) int {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	end := len(base)
	start := end
	for start > 0 && base[start-1] >= '0' && base[start-1] <= '9' {
		start--
	}
	n, err := strconv.Atoi(base[start:end])
	if err != nil {
		return 0
	}
	return n
}

type contentTypes struct {
	XMLName   xml.Name     `xml:"Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Items   []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type presentationPart struct {
	Masters []struct {
		ID  string `xml:"id,attr"`
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldMasterIdLst>sldMasterId"`
	Size struct {
		CX int64 `xml:"cx,attr"`
		CY int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

func sortedKeys(parts map[string][]byte) []string {
	keys := make([]string, 0, len(parts))
	for name := range parts {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys
}
