package dom

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Classes returns the class list of n in document order.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether n has class cls.
func HasClass(n *html.Node, cls string) bool {
	return slices.Contains(Classes(n), cls)
}

// AddClass appends each class not already present.
func AddClass(n *html.Node, classes ...string) {
	if n == nil {
		return
	}
	list := Classes(n)
	for _, c := range classes {
		if !slices.Contains(list, c) {
			list = append(list, c)
		}
	}
	SetAttr(n, "class", strings.Join(list, " "))
}

// RemoveClass removes each listed class.
func RemoveClass(n *html.Node, classes ...string) {
	if n == nil {
		return
	}
	list := slices.DeleteFunc(Classes(n), func(c string) bool {
		return slices.Contains(classes, c)
	})
	SetAttr(n, "class", strings.Join(list, " "))
}

type declaration struct {
	prop, val string
}

func parseStyle(n *html.Node) []declaration {
	v, _ := Attr(n, "style")
	var out []declaration
	for _, part := range strings.Split(v, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		out = append(out, declaration{prop: prop, val: strings.TrimSpace(val)})
	}
	return out
}

// Style returns the inline style value of prop on n.
func Style(n *html.Node, prop string) string {
	for _, d := range parseStyle(n) {
		if d.prop == prop {
			return d.val
		}
	}
	return ""
}

// SetStyle sets inline style prop on n. An empty val removes the property,
// and the style attribute itself once no declarations remain.
func SetStyle(n *html.Node, prop, val string) {
	if n == nil {
		return
	}
	decls := parseStyle(n)
	found := false
	for i := range decls {
		if decls[i].prop == prop {
			decls[i].val = val
			found = true
		}
	}
	if !found {
		decls = append(decls, declaration{prop: prop, val: val})
	}
	var parts []string
	for _, d := range decls {
		if d.val == "" {
			continue
		}
		parts = append(parts, d.prop+": "+d.val)
	}
	if len(parts) == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", strings.Join(parts, "; "))
}
