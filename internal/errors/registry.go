package errors

import "sort"

// Template defines a registered diagnostic.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps codes to templates.
var registry = map[string]Template{
	// ============================================
	// Binding Errors (F001-F019)
	// ============================================

	"F001": {
		Category: CategoryBinding,
		Message:  "Parameter not declared",
		Detail:   "The attribute matches a field of the component type, but the field is not tagged vango:\"param\". Tag the field or rename the attribute.",
	},
	"F002": {
		Category: CategoryBinding,
		Message:  "Attribute value cannot be coerced",
		Detail:   "The attribute value does not parse as, or is not assignable to, the declared parameter type.",
	},
	"F003": {
		Category: CategoryBinding,
		Message:  "Parameter not found",
		Detail:   "The attribute matches no field of the component type, and the type declares no capture parameter.",
	},
	"F004": {
		Category: CategoryBinding,
		Message:  "Unknown component",
		Detail:   "The markup references a component name that is not registered.",
	},
	"F005": {
		Category: CategoryInternal,
		Message:  "Frame builder protocol violation",
		Detail:   "The frame builder was driven out of order. This is a defect in the construction engine, not in the markup.",
	},

	// ============================================
	// Fixture Errors (F020-F039)
	// ============================================

	"F020": {
		Category: CategoryFixture,
		Message:  "Invalid fixture document",
		Detail:   "The fixture file is not valid YAML or does not have a top-level nodes list.",
	},
	"F021": {
		Category: CategoryFixture,
		Message:  "Unknown node kind",
		Detail:   "Each node must have exactly one of the keys text, expr, element, or component.",
	},
	"F022": {
		Category: CategoryFixture,
		Message:  "Invalid attribute",
		Detail:   "Attributes take a literal string, an expression (expr), a minimized flag (flag), a method reference (method), or markup (markup).",
	},

	// ============================================
	// Configuration Errors (F040-F059)
	// ============================================

	"F040": {
		Category: CategoryConfig,
		Message:  "Configuration file unreadable",
		Detail:   "frametree.json exists but could not be read or parsed.",
	},
	"F041": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "A configuration value is out of range or inconsistent.",
	},
	"F042": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "An FRAMETREE_* environment variable could not be parsed.",
	},

	// ============================================
	// Storage Errors (F060-F079)
	// ============================================

	"F060": {
		Category: CategoryStorage,
		Message:  "Snapshot write failed",
		Detail:   "The encoded frame snapshot could not be stored.",
	},
	"F061": {
		Category: CategoryStorage,
		Message:  "Snapshot read failed",
		Detail:   "The frame snapshot could not be loaded or decoded.",
	},

	// ============================================
	// CLI Errors (F080-F099)
	// ============================================

	"F080": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was invoked with missing or conflicting arguments.",
	},
	"F081": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The inspector server stopped with an error.",
	},
	"F082": {
		Category: CategoryCLI,
		Message:  "Command failed",
		Detail:   "The command stopped with an unexpected error.",
	},
}

// Codes returns all registered codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Lookup returns the template for a code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
