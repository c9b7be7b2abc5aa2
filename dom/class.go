package dom

import (
	"slices"
	"strings"

	"github.com/beevik/etree"
)

func classes(el *etree.Element) []string {
	return strings.Fields(el.SelectAttrValue("class", ""))
}

func HasClass(el *etree.Element, name string) bool {
	return slices.Contains(classes(el), name)
}

func AddClass(el *etree.Element, name string) {
	list := classes(el)
	if slices.Contains(list, name) {
		return
	}
	el.CreateAttr("class", strings.Join(append(list, name), " "))
}

func RemoveClass(el *etree.Element, name string) {
	list := slices.DeleteFunc(classes(el), func(s string) bool { return s == name })
	if len(list) == 0 {
		el.RemoveAttr("class")
		return
	}
	el.CreateAttr("class", strings.Join(list, " "))
}
