package deck

import (
	"fmt"
	"math"
	"strings"
)

const (
	emuPerInch = 914400
	emuPerPt   = 12700

	fontFace = "Times New Roman"
)

func inches(v float64) int64 {
	return int64(math.Round(v * emuPerInch))
}

type rect struct {
	x, y, cx, cy int64
}

type align string

const (
	alignLeft    align = "l"
	alignCenter  align = "ctr"
	alignJustify align = "just"
)

// paragraph is one <a:p> with a single run.
type paragraph struct {
	text        string
	sizePt      int
	bold        bool
	align       align
	lineSpacing int // percent; 0 keeps the default
	spaceBefore int // points
	spaceAfter  int // points
}

// textFrame is the body of a shape.
type textFrame struct {
	paragraphs []paragraph
	insets     *[4]int64 // left, top, right, bottom
	anchorMid  bool
	autofit    bool
}

// slideXMLBuilder accumulates the shape tree of one slide and the images it
// references.
type slideXMLBuilder struct {
	shapes strings.Builder
	nextID int
	images []string
}

func newSlideXMLBuilder() *slideXMLBuilder {
	return &slideXMLBuilder{nextID: 2}
}

func (b *slideXMLBuilder) id() int {
	id := b.nextID
	b.nextID++
	return id
}

// picture places the media part at target (relative to ppt/).
func (b *slideXMLBuilder) picture(name, target string, r rect) {
	b.images = append(b.images, target)
	relID := len(b.images) + 1
	fmt.Fprintf(&b.shapes,
		`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`+
			`<p:blipFill><a:blip r:embed="rId%d"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
			`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`,
		b.id(), escape(name), relID, xfrm(r))
}

// roundRect adds a white rounded rectangle. adj is the corner radius as a
// fraction of the shorter side; alpha is the fill opacity in 1/1000 percent.
func (b *slideXMLBuilder) roundRect(name string, r rect, adj float64, alpha int, frame *textFrame) {
	fill := `<a:srgbClr val="FFFFFF"/>`
	if alpha > 0 && alpha < 100000 {
		fill = fmt.Sprintf(`<a:srgbClr val="FFFFFF"><a:alpha val="%d"/></a:srgbClr>`, alpha)
	}
	fmt.Fprintf(&b.shapes,
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr>%s<a:prstGeom prst="roundRect"><a:avLst><a:gd name="adj" fmla="val %d"/></a:avLst></a:prstGeom>`+
			`<a:solidFill>%s</a:solidFill><a:ln><a:noFill/></a:ln></p:spPr>`,
		b.id(), escape(name), xfrm(r), int(math.Round(adj*100000)), fill)
	if frame != nil {
		b.shapes.WriteString(frame.xml())
	}
	b.shapes.WriteString(`</p:sp>`)
}

func (b *slideXMLBuilder) textBox(name string, r rect, frame textFrame) {
	fmt.Fprintf(&b.shapes,
		`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr>%s<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`,
		b.id(), escape(name), xfrm(r))
	b.shapes.WriteString(frame.xml())
	b.shapes.WriteString(`</p:sp>`)
}

func (b *slideXMLBuilder) xml() string {
	return xmlHeader +
		fmt.Sprintf(`<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsR, nsP) +
		`<p:cSld><p:spTree>` +
		`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>` +
		b.shapes.String() +
		`</p:spTree></p:cSld>` +
		`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
		`</p:sld>`
}

func xfrm(r rect) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, r.x, r.y, r.cx, r.cy)
}

func (f textFrame) xml() string {
	var b strings.Builder
	b.WriteString(`<p:txBody><a:bodyPr wrap="square"`)
	if f.insets != nil {
		fmt.Fprintf(&b, ` lIns="%d" tIns="%d" rIns="%d" bIns="%d"`, f.insets[0], f.insets[1], f.insets[2], f.insets[3])
	}
	if f.anchorMid {
		b.WriteString(` anchor="ctr"`)
	}
	b.WriteString(`>`)
	if f.autofit {
		b.WriteString(`<a:normAutofit/>`)
	}
	b.WriteString(`</a:bodyPr><a:lstStyle/>`)
	for _, p := range f.paragraphs {
		b.WriteString(p.xml())
	}
	if len(f.paragraphs) == 0 {
		b.WriteString(`<a:p/>`)
	}
	b.WriteString(`</p:txBody>`)
	return b.String()
}

func (p paragraph) xml() string {
	var b strings.Builder
	b.WriteString(`<a:p><a:pPr`)
	if p.align != "" {
		fmt.Fprintf(&b, ` algn="%s"`, p.align)
	}
	b.WriteString(`>`)
	if p.lineSpacing > 0 {
		fmt.Fprintf(&b, `<a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, p.lineSpacing*1000)
	}
	if p.spaceBefore > 0 {
		fmt.Fprintf(&b, `<a:spcBef><a:spcPts val="%d"/></a:spcBef>`, p.spaceBefore*100)
	}
	if p.spaceAfter > 0 {
		fmt.Fprintf(&b, `<a:spcAft><a:spcPts val="%d"/></a:spcAft>`, p.spaceAfter*100)
	}
	b.WriteString(`</a:pPr>`)

	bold := "0"
	if p.bold {
		bold = "1"
	}
	fmt.Fprintf(&b, `<a:r><a:rPr lang="en-US" sz="%d" b="%s" dirty="0">`, p.sizePt*100, bold)
	b.WriteString(`<a:solidFill><a:srgbClr val="000000"/></a:solidFill>`)
	fmt.Fprintf(&b, `<a:latin typeface="%[1]s"/><a:cs typeface="%[1]s"/>`, fontFace)
	fmt.Fprintf(&b, `</a:rPr><a:t>%s</a:t></a:r></a:p>`, escape(p.text))
	return b.String()
}
