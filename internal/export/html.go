package export

import (
	"fmt"
	"io"
	"strconv"

	"job-portal/internal/filter"
	"job-portal/internal/format"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const reportStyle = `body{font-family:sans-serif;margin:2em;color:#282828}
p.meta{color:#646464;font-size:0.9em;margin:0.2em 0}
table{border-collapse:collapse;margin-top:1em;width:100%}
th{background:#646464;color:#fff;text-align:left}
th,td{border:1px solid #c8c8c8;padding:4px 6px;font-size:0.85em}`

// WriteHTML 输出与 PDF 内容一致的 HTML 报告，文本统一经过转义。
func WriteHTML(w io.Writer, r Report) error {
	head := element(atom.Head, nil,
		element(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
		element(atom.Title, nil, text("Filtered Job Results")),
		element(atom.Style, nil, text(reportStyle)),
	)

	headerRow := element(atom.Tr, nil)
	for _, col := range reportColumns {
		headerRow.AppendChild(element(atom.Th, nil, text(col)))
	}
	body := element(atom.Tbody, nil)
	for _, job := range r.Jobs {
		row := element(atom.Tr, []html.Attribute{{Key: "data-id", Val: job.ID}})
		for _, cell := range reportRow(job) {
			row.AppendChild(element(atom.Td, nil, text(cell)))
		}
		body.AppendChild(row)
	}

	meta := []html.Attribute{{Key: "class", Val: "meta"}}
	page := element(atom.Body, nil,
		element(atom.H1, nil, text("Filtered Job Results")),
		element(atom.P, meta, text(filter.SummaryLine(r.Filters))),
		element(atom.P, meta, text("Total results: "+strconv.Itoa(len(r.Jobs)))),
		element(atom.P, meta, text("Generated on: "+format.DateTime(r.Generated))),
		element(atom.Table, nil, element(atom.Thead, nil, headerRow), body),
	)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, []html.Attribute{{Key: "lang", Val: "en"}}, head, page))

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
