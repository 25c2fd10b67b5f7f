package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Engine Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryEngine,
		Message:  "Binding configuration error",
		Detail:   "A binding cannot be evaluated against its context. In strict mode a property must name a value present on an object or array context, and object contexts need a property.",
	},
	"E002": {
		Category: CategoryEngine,
		Message:  "Context resolution error",
		Detail:   "A context expression could not derive the element context. In strict mode the parent context must be indexable and hold the named property.",
	},
	"E003": {
		Category: CategoryEngine,
		Message:  "Unknown template reference",
		Detail:   "A template reference names a template that is not registered with the engine.",
	},

	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No mte.json was found in the current directory or any parent directory.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid config JSON",
		Detail:   "mte.json could not be parsed.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range or has the wrong form.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Config write failed",
		Detail:   "mte.json could not be written.",
	},

	// ============================================
	// Scenario Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryScenario,
		Message:  "Scenario file not found",
		Detail:   "The scenario file does not exist or cannot be read.",
	},
	"E201": {
		Category: CategoryScenario,
		Message:  "Invalid scenario YAML",
		Detail:   "The scenario file is not valid YAML or does not match the scenario layout.",
	},
	"E202": {
		Category: CategoryScenario,
		Message:  "Invalid scenario step",
		Detail:   "A step has an unknown op or is missing a required field.",
	},
	"E203": {
		Category: CategoryScenario,
		Message:  "Invalid template descriptor",
		Detail:   "A template node must have exactly one of tag, bind, list, ref or text.",
	},
	"E204": {
		Category: CategoryScenario,
		Message:  "Unknown formatter",
		Detail:   "The named formatter is not built in.",
	},
	"E205": {
		Category: CategoryScenario,
		Message:  "Step target not found",
		Detail:   "A step path does not lead to an observable object, map or sequence.",
	},

	// ============================================
	// CLI Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was called with invalid arguments.",
	},
	"E301": {
		Category: CategoryCLI,
		Message:  "Inspector server failed",
		Detail:   "The inspector HTTP server stopped with an error.",
	},
	"E302": {
		Category: CategoryCLI,
		Message:  "Benchmark failed",
		Detail:   "A benchmark iteration returned an error.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
