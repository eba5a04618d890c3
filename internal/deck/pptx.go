// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"
	"text/template"
)

const (
	nsA  = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsPR = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDoc   = nsR + "/officeDocument"
	relSlide       = nsR + "/slide"
	relSlideMaster = nsR + "/slideMaster"
	relSlideLayout = nsR + "/slideLayout"
	relTheme       = nsR + "/theme"
	relPresProps   = nsR + "/presProps"
	relViewProps   = nsR + "/viewProps"
	relTableStyles = nsR + "/tableStyles"
	relExtended    = nsR + "/extended-properties"
	relCore        = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	// Relationship IDs in presentation.xml.rels before the first slide.
	fixedPresRels = 5
	firstSlideID  = 256
	notesWidth    = 6858000
	notesHeight   = 9144000
)

// Write encodes the presentation as an Office Open XML package.
func (p *Presentation) Write(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []struct {
		name string
		tmpl *template.Template
		data any
	}{
		{"[Content_Types].xml", contentTypesTmpl, p},
		{"_rels/.rels", rootRelsTmpl, nil},
		{"docProps/app.xml", appTmpl, p},
		{"docProps/core.xml", coreTmpl, p},
		{"ppt/presentation.xml", presentationTmpl, p},
		{"ppt/_rels/presentation.xml.rels", presentationRelsTmpl, p},
		{"ppt/slideMasters/slideMaster1.xml", masterTmpl, nil},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", masterRelsTmpl, nil},
		{"ppt/slideLayouts/slideLayout1.xml", layoutTmpl, nil},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRelsTmpl, nil},
		{"ppt/theme/theme1.xml", themeTmpl, nil},
		{"ppt/presProps.xml", presPropsTmpl, nil},
		{"ppt/viewProps.xml", viewPropsTmpl, nil},
		{"ppt/tableStyles.xml", tableStylesTmpl, nil},
	}
	for _, part := range parts {
		pw, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", part.name, err)
		}
		if err := part.tmpl.Execute(pw, part.data); err != nil {
			return fmt.Errorf("writing %s: %w", part.name, err)
		}
	}

	for i, s := range p.Slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		pw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		if _, err := io.WriteString(pw, slideXML(s)); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}

		rels := fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1)
		rw, err := zw.Create(rels)
		if err != nil {
			return fmt.Errorf("creating %s: %w", rels, err)
		}
		if err := slideRelsTmpl.Execute(rw, nil); err != nil {
			return fmt.Errorf("writing %s: %w", rels, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing package: %w", err)
	}
	return nil
}

// slideXML renders one slide's shape tree.
func slideXML(s *Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld><p:spTree>`, nsA, nsR, nsP)
	b.WriteString(groupShapeProps)
	for i, box := range s.Boxes {
		writeTextBox(&b, i+2, box)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func writeTextBox(b *strings.Builder, id int, box *TextBox) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id-1)
	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, box.Left, box.Top, box.Width, box.Height)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:noAutofit/></a:bodyPr><a:lstStyle/>`)
	if len(box.Paragraphs) == 0 {
		b.WriteString(`<a:p><a:endParaRPr lang="zh-CN" dirty="0"/></a:p>`)
	}
	for _, p := range box.Paragraphs {
		writeParagraph(b, p)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func writeParagraph(b *strings.Builder, p Paragraph) {
	b.WriteString(`<a:p>`)
	if p.Align != "" {
		fmt.Fprintf(b, `<a:pPr algn="%s"/>`, p.Align)
	}
	text := strings.NewReplacer("\r\n", "\n", "\r", "\n", "\v", "\n").Replace(p.Text)
	if text == "" {
		writeRunProps(b, "a:endParaRPr", p)
		b.WriteString(`</a:p>`)
		return
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString(`<a:br>`)
			writeRunProps(b, "a:rPr", p)
			b.WriteString(`</a:br>`)
		}
		if line == "" {
			continue
		}
		b.WriteString(`<a:r>`)
		writeRunProps(b, "a:rPr", p)
		b.WriteString(`<a:t>`)
		escape(b, line)
		b.WriteString(`</a:t></a:r>`)
	}
	b.WriteString(`</a:p>`)
}

func writeRunProps(b *strings.Builder, tag string, p Paragraph) {
	fmt.Fprintf(b, `<%s lang="zh-CN" altLang="en-US"`, tag)
	if p.Size > 0 {
		fmt.Fprintf(b, ` sz="%d"`, int(math.Round(p.Size*100)))
	}
	if p.Bold {
		b.WriteString(` b="1"`)
	}
	b.WriteString(` dirty="0">`)
	if p.Color != nil {
		fmt.Fprintf(b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, p.Color.Hex())
	}
	if p.Font != "" {
		b.WriteString(`<a:latin typeface="`)
		escape(b, p.Font)
		b.WriteString(`"/><a:ea typeface="`)
		escape(b, p.Font)
		b.WriteString(`"/>`)
	}
	fmt.Fprintf(b, `</%s>`, tag)
}

func escape(w io.Writer, s string) {
	_ = xml.EscapeText(w, []byte(s))
}

func escapeString(s string) string {
	var b strings.Builder
	escape(&b, s)
	return b.String()
}

const groupShapeProps = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

var funcs = template.FuncMap{
	"xml":      escapeString,
	"add":      func(a, b int) int { return a + b },
	"slideRel": func(i int) int { return fixedPresRels + 1 + i },
	"slideID":  func(i int) int { return firstSlideID + i },
	"notesW":   func() int { return notesWidth },
	"notesH":   func() int { return notesHeight },
}

func mustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Parse(xmlHeader + text))
}

var contentTypesTmpl = mustParse("content-types", `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
	`<Default Extension="xml" ContentType="application/xml"/>`+
	`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`+
	`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`+
	`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`+
	`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`+
	`<Override PartName="/ppt/presProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"/>`+
	`<Override PartName="/ppt/viewProps.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"/>`+
	`<Override PartName="/ppt/tableStyles.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"/>`+
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`+
	`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`+
	`{{range $i, $s := .Slides}}<Override PartName="/ppt/slides/slide{{add $i 1}}.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>{{end}}`+
	`</Types>`)

var rootRelsTmpl = mustParse("root-rels", `<Relationships xmlns="`+nsPR+`">`+
	`<Relationship Id="rId1" Type="`+relOfficeDoc+`" Target="ppt/presentation.xml"/>`+
	`<Relationship Id="rId2" Type="`+relCore+`" Target="docProps/core.xml"/>`+
	`<Relationship Id="rId3" Type="`+relExtended+`" Target="docProps/app.xml"/>`+
	`</Relationships>`)

var appTmpl = mustParse("app", `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" `+
	`xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`+
	`<Application>examdeck</Application><Slides>{{len .Slides}}</Slides></Properties>`)

var coreTmpl = mustParse("core", `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" `+
	`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" `+
	`xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`+
	`<dc:title>{{xml .Title}}</dc:title><dc:creator>examdeck</dc:creator></cp:coreProperties>`)

var presentationTmpl = mustParse("presentation", `<p:presentation xmlns:a="`+nsA+`" xmlns:r="`+nsR+`" xmlns:p="`+nsP+`" saveSubsetFonts="1">`+
	`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`+
	`{{if .Slides}}<p:sldIdLst>{{range $i, $s := .Slides}}<p:sldId id="{{slideID $i}}" r:id="rId{{slideRel $i}}"/>{{end}}</p:sldIdLst>{{end}}`+
	`<p:sldSz cx="{{.Size.Width}}" cy="{{.Size.Height}}"/>`+
	`<p:notesSz cx="{{notesW}}" cy="{{notesH}}"/>`+
	`</p:presentation>`)

var presentationRelsTmpl = mustParse("presentation-rels", `<Relationships xmlns="`+nsPR+`">`+
	`<Relationship Id="rId1" Type="`+relSlideMaster+`" Target="slideMasters/slideMaster1.xml"/>`+
	`<Relationship Id="rId2" Type="`+relTheme+`" Target="theme/theme1.xml"/>`+
	`<Relationship Id="rId3" Type="`+relPresProps+`" Target="presProps.xml"/>`+
	`<Relationship Id="rId4" Type="`+relViewProps+`" Target="viewProps.xml"/>`+
	`<Relationship Id="rId5" Type="`+relTableStyles+`" Target="tableStyles.xml"/>`+
	`{{range $i, $s := .Slides}}<Relationship Id="rId{{slideRel $i}}" Type="`+relSlide+`" Target="slides/slide{{add $i 1}}.xml"/>{{end}}`+
	`</Relationships>`)

var masterTmpl = mustParse("master", `<p:sldMaster xmlns:a="`+nsA+`" xmlns:r="`+nsR+`" xmlns:p="`+nsP+`">`+
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>`+groupShapeProps+`</p:spTree></p:cSld>`+
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" `+
	`accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`+
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>`+
	`<p:txStyles><p:titleStyle><a:lvl1pPr><a:defRPr sz="4400"/></a:lvl1pPr></p:titleStyle>`+
	`<p:bodyStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:bodyStyle>`+
	`<p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle></p:txStyles>`+
	`</p:sldMaster>`)

var masterRelsTmpl = mustParse("master-rels", `<Relationships xmlns="`+nsPR+`">`+
	`<Relationship Id="rId1" Type="`+relSlideLayout+`" Target="../slideLayouts/slideLayout1.xml"/>`+
	`<Relationship Id="rId2" Type="`+relTheme+`" Target="../theme/theme1.xml"/>`+
	`</Relationships>`)

var layoutTmpl = mustParse("layout", `<p:sldLayout xmlns:a="`+nsA+`" xmlns:r="`+nsR+`" xmlns:p="`+nsP+`" type="blank" preserve="1">`+
	`<p:cSld name="Blank"><p:spTree>`+groupShapeProps+`</p:spTree></p:cSld>`+
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`)

var layoutRelsTmpl = mustParse("layout-rels", `<Relationships xmlns="`+nsPR+`">`+
	`<Relationship Id="rId1" Type="`+relSlideMaster+`" Target="../slideMasters/slideMaster1.xml"/>`+
	`</Relationships>`)

var slideRelsTmpl = mustParse("slide-rels", `<Relationships xmlns="`+nsPR+`">`+
	`<Relationship Id="rId1" Type="`+relSlideLayout+`" Target="../slideLayouts/slideLayout1.xml"/>`+
	`</Relationships>`)

var presPropsTmpl = mustParse("pres-props", `<p:presentationPr xmlns:a="`+nsA+`" xmlns:r="`+nsR+`" xmlns:p="`+nsP+`"/>`)

var viewPropsTmpl = mustParse("view-props", `<p:viewPr xmlns:a="`+nsA+`" xmlns:r="`+nsR+`" xmlns:p="`+nsP+`">`+
	`<p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`)

var tableStylesTmpl = mustParse("table-styles", `<a:tblStyleLst xmlns:a="`+nsA+`" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`)

var themeTmpl = mustParse("theme", `<a:theme xmlns:a="`+nsA+`" name="Office Theme"><a:themeElements>`+
	`<a:clrScheme name="Office">`+
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>`+
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>`+
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>`+
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>`+
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>`+
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>`+
	`</a:clrScheme>`+
	`<a:fontScheme name="Office">`+
	`<a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`+
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`+
	`</a:fontScheme>`+
	`<a:fmtScheme name="Office">`+
	`<a:fillStyleLst>{{template "solid"}}{{template "solid"}}{{template "solid"}}</a:fillStyleLst>`+
	`<a:lnStyleLst>{{template "line"}}{{template "line"}}{{template "line"}}</a:lnStyleLst>`+
	`<a:effectStyleLst>{{template "effect"}}{{template "effect"}}{{template "effect"}}</a:effectStyleLst>`+
	`<a:bgFillStyleLst>{{template "solid"}}{{template "solid"}}{{template "solid"}}</a:bgFillStyleLst>`+
	`</a:fmtScheme></a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`+
	`{{define "solid"}}<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>{{end}}`+
	`{{define "line"}}<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>{{end}}`+
	`{{define "effect"}}<a:effectStyle><a:effectLst/></a:effectStyle>{{end}}`)
