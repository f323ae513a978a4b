package excel

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

const (
	vbaProjectPart     = "xl/vbaProject.bin"
	vbaSignaturePart   = "xl/vbaProjectSignature.bin"
	contentTypesPart   = "[Content_Types].xml"
	workbookRelsPart   = "xl/_rels/workbook.xml.rels"
	vbaRelationType    = "http://schemas.microsoft.com/office/2006/relationships/vbaProject"
	macroWorkbookType  = "application/vnd.ms-excel.sheet.macroEnabled.main+xml"
	plainWorkbookType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	vbaBinContentType  = "application/vnd.ms-office.vbaProject"
)

type contentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Xmlns     string                `xml:"xmlns,attr"`
	Defaults  []contentTypeDefault  `xml:"Default"`
	Overrides []contentTypeOverride `xml:"Override"`
}

type relationship struct {
	Id     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Rels    []relationship `xml:"Relationship"`
}

// StripMacroPayload rewrites a macro-enabled workbook into a plain .xlsx at
// the container level: the VBA project part is dropped and the package
// content types and workbook relationships are rewritten accordingly.
// Sheet data, styles, and embedded pictures pass through untouched.
func StripMacroPayload(data []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	writer := zip.NewWriter(&out)

	for _, file := range reader.File {
		if file.Name == vbaProjectPart || file.Name == vbaSignaturePart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		switch file.Name {
		case contentTypesPart:
			content, err = rewriteContentTypes(content)
		case workbookRelsPart:
			content, err = rewriteWorkbookRels(content)
		}
		if err != nil {
			return nil, err
		}

		header := &zip.FileHeader{
			Name:     file.Name,
			Method:   zip.Deflate,
			Modified: file.Modified,
		}
		w, err := writer.CreateHeader(header)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(content); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// rewriteContentTypes drops the VBA content type declarations and downgrades
// the workbook part from macro-enabled to plain.
func rewriteContentTypes(data []byte) ([]byte, error) {
	var types contentTypes
	if err := xml.Unmarshal(data, &types); err != nil {
		return nil, err
	}

	defaults := types.Defaults[:0]
	for _, d := range types.Defaults {
		if strings.EqualFold(d.Extension, "bin") && d.ContentType == vbaBinContentType {
			continue
		}
		defaults = append(defaults, d)
	}
	types.Defaults = defaults

	for i, o := range types.Overrides {
		if o.ContentType == macroWorkbookType {
			types.Overrides[i].ContentType = plainWorkbookType
		}
	}

	return marshalXML(types)
}

// rewriteWorkbookRels removes the workbook's relationship to the VBA project.
func rewriteWorkbookRels(data []byte) ([]byte, error) {
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, err
	}

	kept := rels.Rels[:0]
	for _, rel := range rels.Rels {
		if rel.Type == vbaRelationType {
			continue
		}
		kept = append(kept, rel)
	}
	rels.Rels = kept

	return marshalXML(rels)
}

func marshalXML(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
