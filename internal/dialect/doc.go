// Package dialect describes the host-language conventions the expander
// relies on: which keywords introduce functions and modules, what an
// unreachable placeholder looks like, how scaffold modules are guarded.
//
// Значения по умолчанию соответствуют Rust; stencil.toml может их переопределить.
package dialect
