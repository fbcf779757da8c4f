// Package discovery resolves the repositories an "all submodules" run analyzes.
package discovery
