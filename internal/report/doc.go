// Package report turns branch status records into a structured Document and
// renders it as a grouped table, JSON, CSV or YAML.
//
// Building the document is a pure step; renderers are stateless and only the
// table renderer applies ANSI color.
package report
