package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/pkg/errors"

	"dicomsar/dicom"
	"dicomsar/selector"
)

// renderDump produces the dump-mode text for one decoded file. An empty
// selector dumps everything, file meta included; explicit tags narrow the
// output to matching elements at any nesting depth.
func renderDump(path string, d *dicom.Dataset, sel *selector.Selector, asJSON bool) (string, error) {
	if asJSON {
		return renderJSON(path, d, sel)
	}
	return renderPlain(path, d, sel), nil
}

func dumped(sel *selector.Selector, e *dicom.Element) bool {
	if sel == nil || sel.Empty() {
		return true
	}
	return sel.Matches(e.Tag)
}

func renderPlain(path string, d *dicom.Dataset, sel *selector.Selector) string {
	var b strings.Builder
	fmt.Fprintf(&b, "==> %s\n", path)
	if sel == nil || sel.Empty() {
		writeElements(&b, d.Meta, sel, 1)
	}
	writeElements(&b, d.Elements, sel, 1)
	return b.String()
}

func writeElements(b *strings.Builder, elements []*dicom.Element, sel *selector.Selector, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, e := range elements {
		if dumped(sel, e) {
			fmt.Fprintf(b, "%s%s %s %s: %s\n", indent, e.Tag, e.Keyword(), e.VR.Name, plainValue(e))
		}
		for _, item := range e.Items {
			if dumped(sel, e) {
				fmt.Fprintf(b, "%s  item:\n", indent)
			}
			writeElements(b, item.Elements, sel, depth+2)
		}
	}
}

func plainValue(e *dicom.Element) string {
	switch {
	case e.VR.IsSequence():
		return fmt.Sprintf("%d item(s)", len(e.Items))
	case e.VR.IsStringLike():
		text, err := e.Text()
		if err != nil {
			return fmt.Sprintf("<undecodable: %v>", err)
		}
		return text
	default:
		return fmt.Sprintf("<%d bytes>", len(e.RawValue()))
	}
}

func renderJSON(path string, d *dicom.Dataset, sel *selector.Selector) (string, error) {
	o := orderedmap.New()
	o.Set("file", path)
	if sel == nil || sel.Empty() {
		o.Set("meta", elementsMap(d.Meta, sel))
	}
	o.Set("elements", elementsMap(d.Elements, sel))

	bs, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "renderJSON error: marshaling")
	}
	return string(bs) + "\n", nil
}

func elementsMap(elements []*dicom.Element, sel *selector.Selector) *orderedmap.OrderedMap {
	o := orderedmap.New()
	for _, e := range elements {
		if !dumped(sel, e) {
			continue
		}
		entry := orderedmap.New()
		entry.Set("keyword", e.Keyword())
		entry.Set("vr", e.VR.Name)
		if e.VR.IsSequence() {
			items := make([]*orderedmap.OrderedMap, 0, len(e.Items))
			for _, item := range e.Items {
				items = append(items, elementsMap(item.Elements, sel))
			}
			entry.Set("items", items)
		} else {
			entry.Set("value", plainValue(e))
		}
		o.Set(e.Tag.String(), entry)
	}
	return o
}
