// Package slots declares and checks the customization points of a template.
//
// A Registry is parsed once from the `define(...)` options. Each
// instantiation supplies ConstructionDef and SubstitutionDef values, and
// Validate compares the two name sets independently per slot kind.
package slots
