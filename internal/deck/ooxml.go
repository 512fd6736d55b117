package deck

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	// MediaType is the MIME type of a generated deck.
	MediaType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

	defaultSlideCX = 12192000
	defaultSlideCY = 6858000

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"

	relSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)

// writePart adds one entry with a zero timestamp so identical decks are
// byte-identical.
func writePart(writer *zip.Writer, name string, payload []byte, method uint16) error {
	w, err := writer.CreateHeader(&zip.FileHeader{Name: name, Method: method})
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func escape(text string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(text))
	return b.String()
}

func contentTypesXML(t *Template, slideCount int, mediaExts []string) string {
	defaults := map[string]string{
		"rels": "application/vnd.openxmlformats-package.relationships+xml",
		"xml":  "application/xml",
	}
	for _, d := range t.defaults {
		defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, ext := range mediaExts {
		if _, ok := defaults[ext]; !ok {
			defaults[ext] = imageContentType(ext)
		}
	}
	exts := make([]string, 0, len(defaults))
	for ext := range defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	var builder strings.Builder
	builder.WriteString(xmlHeader)
	builder.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	for _, ext := range exts {
		fmt.Fprintf(&builder, `<Default Extension="%s" ContentType="%s"/>`, escape(ext), escape(defaults[ext]))
	}
	builder.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	builder.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	builder.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	for _, o := range t.overrides {
		fmt.Fprintf(&builder, `<Override PartName="%s" ContentType="%s"/>`, escape(o.PartName), escape(o.ContentType))
	}
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&builder, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="%s"/>`, i, ctSlide)
	}
	builder.WriteString(`</Types>`)
	return builder.String()
}

func rootRelsXML() string {
	return xmlHeader +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" Target="docProps/core.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
		`</Relationships>`
}

// corePropsXML carries timestamps only when createdAt is set.
func corePropsXML(title string, createdAt time.Time) string {
	var builder strings.Builder
	builder.WriteString(xmlHeader)
	builder.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&builder, `<dc:title>%s</dc:title>`, escape(title))
	builder.WriteString(`<dc:creator>cassandra</dc:creator><cp:lastModifiedBy>cassandra</cp:lastModifiedBy>`)
	if !createdAt.IsZero() {
		stamp := createdAt.UTC().Format(time.RFC3339)
		fmt.Fprintf(&builder, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, stamp)
		fmt.Fprintf(&builder, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, stamp)
	}
	builder.WriteString(`</cp:coreProperties>`)
	return builder.String()
}

func appPropsXML(slideCount int) string {
	return xmlHeader +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
		`<Application>cassandra</Application>` +
		`<PresentationFormat>Widescreen</PresentationFormat>` +
		fmt.Sprintf(`<Slides>%d</Slides>`, slideCount) +
		`<Notes>0</Notes><HiddenSlides>0</HiddenSlides><ScaleCrop>false</ScaleCrop>` +
		`<AppVersion>16.0000</AppVersion>` +
		`</Properties>`
}

// presentationXML lists masters as rId1..rIdM, then the kept template
// relationships, then the slides.
func presentationXML(t *Template, slideCount int) string {
	var builder strings.Builder
	builder.WriteString(xmlHeader)
	fmt.Fprintf(&builder, `<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">`, nsA, nsR, nsP)
	builder.WriteString(`<p:sldMasterIdLst>`)
	for i, master := range t.masters {
		fmt.Fprintf(&builder, `<p:sldMasterId id="%s" r:id="rId%d"/>`, escape(master.id), i+1)
	}
	builder.WriteString(`</p:sldMasterIdLst>`)
	if slideCount > 0 {
		builder.WriteString(`<p:sldIdLst>`)
		first := len(t.masters) + len(t.presRels) + 1
		for i := 0; i < slideCount; i++ {
			fmt.Fprintf(&builder, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, first+i)
		}
		builder.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&builder, `<p:sldSz cx="%d" cy="%d"/>`, t.width, t.height)
	builder.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	builder.WriteString(`<p:defaultTextStyle/>`)
	builder.WriteString(`</p:presentation>`)
	return builder.String()
}

func presentationRelsXML(t *Template, slideCount int) string {
	var builder strings.Builder
	builder.WriteString(xmlHeader)
	builder.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	id := 1
	for _, master := range t.masters {
		fmt.Fprintf(&builder, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, id, relSlideMaster, escape(master.target))
		id++
	}
	for _, rel := range t.presRels {
		fmt.Fprintf(&builder, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, id, escape(rel.Type), escape(rel.Target))
		id++
	}
	for i := 1; i <= slideCount; i++ {
		fmt.Fprintf(&builder, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, id, relSlide, i)
		id++
	}
	builder.WriteString(`</Relationships>`)
	return builder.String()
}

func slideRelsXML(layoutTarget string, images []string) string {
	var builder strings.Builder
	builder.WriteString(xmlHeader)
	builder.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	fmt.Fprintf(&builder, `<Relationship Id="rId1" Type="%s" Target="../%s"/>`, relSlideLayout, escape(layoutTarget))
	for i, target := range images {
		fmt.Fprintf(&builder, `<Relationship Id="rId%d" Type="%s" Target="../%s"/>`, i+2, relImage, escape(target))
	}
	builder.WriteString(`</Relationships>`)
	return builder.String()
}

func imageContentType(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "jpeg", "jpg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
