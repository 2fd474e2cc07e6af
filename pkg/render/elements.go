package render

import "strings"

// voidElements have no closing tag and never carry content.
var voidElements = setOf("area base br col embed hr img input link meta source track wbr")

// booleanAttrs are written as a bare name when true and omitted when false.
var booleanAttrs = setOf(`allowfullscreen async autofocus autoplay checked controls default
	defer disabled formnovalidate hidden inert loop multiple muted novalidate open readonly
	required reversed selected`)

func setOf(names string) map[string]bool {
	set := make(map[string]bool)
	for _, n := range strings.Fields(names) {
		set[n] = true
	}
	return set
}
