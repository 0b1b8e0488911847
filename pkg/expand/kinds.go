package expand

import (
	"sync"

	"github.com/simonkoeck/widen/pkg/syntax"
)

// expandableKinds lists, per language, the statement and declaration level
// node kinds a conflict may be widened to. Expression level kinds (calls,
// member access, binary expressions, argument lists) are left out: their
// enclosing node is often a whole call chain and widening to it would swallow
// far more than the lines that actually differ.
var expandableKinds = map[syntax.LanguageID][]string{
	syntax.LangSwift: {
		"source_file",
		"statements",
		"import_declaration",
		"function_declaration",
		"init_declaration",
		"deinit_declaration",
		"class_declaration",
		"protocol_declaration",
		"protocol_function_declaration",
		"protocol_property_declaration",
		"typealias_declaration",
		"associatedtype_declaration",
		"operator_declaration",
		"property_declaration",
		"subscript_declaration",
		"computed_property",
		"computed_getter",
		"computed_setter",
		"enum_entry",
		"class_body",
		"enum_class_body",
		"protocol_body",
		"function_body",
		"if_statement",
		"guard_statement",
		"switch_statement",
		"switch_entry",
		"for_statement",
		"while_statement",
		"repeat_while_statement",
		"do_statement",
		"catch_block",
		"control_transfer_statement",
		"lambda_literal",
	},
	syntax.LangGo: {
		"source_file",
		"import_declaration",
		"function_declaration",
		"method_declaration",
		"type_declaration",
		"type_spec",
		"var_declaration",
		"const_declaration",
		"short_var_declaration",
		"assignment_statement",
		"if_statement",
		"for_statement",
		"expression_switch_statement",
		"type_switch_statement",
		"select_statement",
		"expression_case",
		"type_case",
		"communication_case",
		"default_case",
		"return_statement",
		"go_statement",
		"defer_statement",
		"break_statement",
		"continue_statement",
		"goto_statement",
		"labeled_statement",
		"block",
		"func_literal",
	},
	syntax.LangPython: {
		"module",
		"import_statement",
		"import_from_statement",
		"function_definition",
		"class_definition",
		"decorated_definition",
		"if_statement",
		"elif_clause",
		"else_clause",
		"for_statement",
		"while_statement",
		"try_statement",
		"except_clause",
		"finally_clause",
		"with_statement",
		"match_statement",
		"case_clause",
		"return_statement",
		"raise_statement",
		"pass_statement",
		"break_statement",
		"continue_statement",
		"block",
		"lambda",
	},
	syntax.LangJavaScript: jsKinds,
	syntax.LangTypeScript: tsKinds,
	syntax.LangTSX:        tsKinds,
	syntax.LangRust: {
		"source_file",
		"use_declaration",
		"function_item",
		"struct_item",
		"enum_item",
		"union_item",
		"impl_item",
		"trait_item",
		"mod_item",
		"const_item",
		"static_item",
		"type_item",
		"macro_definition",
		"let_declaration",
		"declaration_list",
		"field_declaration_list",
		"if_expression",
		"match_expression",
		"match_arm",
		"for_expression",
		"while_expression",
		"loop_expression",
		"return_expression",
		"block",
		"closure_expression",
	},
	syntax.LangJava: {
		"program",
		"package_declaration",
		"import_declaration",
		"class_declaration",
		"interface_declaration",
		"enum_declaration",
		"record_declaration",
		"method_declaration",
		"constructor_declaration",
		"field_declaration",
		"local_variable_declaration",
		"class_body",
		"interface_body",
		"enum_body",
		"if_statement",
		"for_statement",
		"enhanced_for_statement",
		"while_statement",
		"do_statement",
		"switch_expression",
		"switch_block_statement_group",
		"try_statement",
		"try_with_resources_statement",
		"catch_clause",
		"finally_clause",
		"return_statement",
		"throw_statement",
		"break_statement",
		"continue_statement",
		"block",
		"constructor_body",
		"lambda_expression",
	},
	syntax.LangYAML: {
		"stream",
		"document",
		"block_mapping",
		"block_mapping_pair",
		"block_sequence",
		"block_sequence_item",
	},
}

var jsKinds = []string{
	"program",
	"import_statement",
	"export_statement",
	"function_declaration",
	"generator_function_declaration",
	"class_declaration",
	"class_body",
	"method_definition",
	"field_definition",
	"lexical_declaration",
	"variable_declaration",
	"if_statement",
	"else_clause",
	"for_statement",
	"for_in_statement",
	"while_statement",
	"do_statement",
	"switch_statement",
	"switch_case",
	"switch_default",
	"try_statement",
	"catch_clause",
	"finally_clause",
	"return_statement",
	"throw_statement",
	"break_statement",
	"continue_statement",
	"statement_block",
	"arrow_function",
	"function_expression",
	"function",
}

// tsKinds shares most of jsKinds; TypeScript names class fields
// public_field_definition.
var tsKinds = []string{
	"program",
	"import_statement",
	"export_statement",
	"function_declaration",
	"generator_function_declaration",
	"class_declaration",
	"class_body",
	"method_definition",
	"lexical_declaration",
	"variable_declaration",
	"if_statement",
	"else_clause",
	"for_statement",
	"for_in_statement",
	"while_statement",
	"do_statement",
	"switch_statement",
	"switch_case",
	"switch_default",
	"try_statement",
	"catch_clause",
	"finally_clause",
	"return_statement",
	"throw_statement",
	"break_statement",
	"continue_statement",
	"statement_block",
	"arrow_function",
	"function_expression",
	"function",
	"interface_declaration",
	"interface_body",
	"type_alias_declaration",
	"enum_declaration",
	"enum_body",
	"abstract_class_declaration",
	"public_field_definition",
	"module",
	"internal_module",
}

// Classifier decides whether a node kind is safe to widen to.
type Classifier struct {
	mu    sync.RWMutex
	kinds map[syntax.LanguageID]map[string]struct{}
}

// NewClassifier returns a classifier seeded with the bundled tables.
func NewClassifier() *Classifier {
	c := &Classifier{kinds: make(map[syntax.LanguageID]map[string]struct{})}
	for lang, kinds := range expandableKinds {
		c.Add(lang, kinds...)
	}
	return c
}

// Add registers additional expandable kinds for lang.
func (c *Classifier) Add(lang syntax.LanguageID, kinds ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set, ok := c.kinds[lang]
	if !ok {
		set = make(map[string]struct{}, len(kinds))
		c.kinds[lang] = set
	}
	for _, k := range kinds {
		set[k] = struct{}{}
	}
}

// IsExpandable reports whether kind is statement or declaration level in lang.
func (c *Classifier) IsExpandable(lang syntax.LanguageID, kind string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.kinds[lang][kind]
	return ok
}

// Supports reports whether any kinds are registered for lang.
func (c *Classifier) Supports(lang syntax.LanguageID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.kinds[lang]) > 0
}

// ExpandableKinds returns a copy of the bundled table for lang.
func ExpandableKinds(lang syntax.LanguageID) []string {
	return append([]string(nil), expandableKinds[lang]...)
}
