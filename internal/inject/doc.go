// Package inject rewrites function items: it prepends local bindings to a
// body (construct) and appends parameters to a parameter list
// (extend_parameter_list). Apply finds both annotations in a tree and
// applies them to the items they decorate.
package inject
