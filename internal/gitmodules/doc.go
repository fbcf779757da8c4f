// Package gitmodules reads the extended .gitmodules format.
//
// Besides the keys git itself understands, each [submodule "NAME"] block may carry
// an upstream key naming the repository the submodule was forked from. The reader
// is line oriented and lenient: malformed lines and unknown keys are skipped, so a
// file git accepts is never rejected here.
package gitmodules
