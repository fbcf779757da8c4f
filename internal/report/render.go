package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/rivo/uniseg"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitupstream/internal/branchstatus"
)

const (
	jsonIndentConstant                  = "  "
	yamlIndentConstant                  = 2
	defaultBranchMarkerConstant         = "★"
	nonDefaultBranchMarkerConstant      = " "
	columnGapConstant                   = "  "
	cellPaddingConstant                 = " "
	groupIndentConstant                 = "  "
	repositoryHeaderTemplateConstant    = "Repository: %s\n"
	emptyReportMessageConstant          = "No matching branches.\n"
	summaryTemplateConstant             = "Summary: %d synced, %d ahead, %d behind, %d diverged, %d untracked\n"
	remoteTemplateConstant              = "Remote: %s\n"
	renderErrorTemplateConstant         = "render %s report: %w"
	branchColumnHeaderConstant          = "BRANCH"
	statusColumnHeaderConstant          = "STATUS"
	aheadColumnHeaderConstant           = "AHEAD"
	behindColumnHeaderConstant          = "BEHIND"
	localHashColumnHeaderConstant       = "LOCAL"
	remoteHashColumnHeaderConstant      = "REMOTE"
	remoteReferenceColumnHeaderConstant = "REMOTE REF"
	statusColumnIndexConstant           = 1
)

var csvHeader = []string{
	"repository", "branch", "remote", "remoteRef", "ahead", "behind",
	"status", "localHash", "remoteHash", "isDefault", "trackingOk",
}

// Renderer writes a Document in one format.
type Renderer interface {
	Render(writer io.Writer, document Document) error
}

// NewRenderer returns the renderer for format. colorEnabled only affects FormatTable.
func NewRenderer(format Format, colorEnabled bool) (Renderer, error) {
	switch format {
	case FormatTable:
		return TableRenderer{palette: aurora.NewAurora(colorEnabled)}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	case FormatCSV:
		return CSVRenderer{}, nil
	case FormatYAML:
		return YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf(unsupportedValueTemplateConstant, ErrUnsupportedFormat, format, strings.Join(SupportedFormats(), choiceSeparatorConstant))
	}
}

// JSONRenderer writes the document as one indented JSON object.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(writer io.Writer, document Document) error {
	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", jsonIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatJSON, encodeError)
	}
	return nil
}

// YAMLRenderer writes the document as YAML with the JSON field names.
type YAMLRenderer struct{}

// Render implements Renderer.
func (YAMLRenderer) Render(writer io.Writer, document Document) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatYAML, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatYAML, closeError)
	}
	return nil
}

// CSVRenderer writes a header row and one row per record. Fields are quoted only when they contain a comma, quote or newline.
type CSVRenderer struct{}

// Render implements Renderer.
func (CSVRenderer) Render(writer io.Writer, document Document) error {
	csvWriter := csv.NewWriter(writer)
	if writeError := csvWriter.Write(csvHeader); writeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatCSV, writeError)
	}
	for _, record := range document.Branches {
		row := []string{
			record.Repository,
			record.Branch,
			record.Remote,
			record.RemoteRef,
			strconv.Itoa(record.Ahead),
			strconv.Itoa(record.Behind),
			record.Status,
			record.LocalHash,
			record.RemoteHash,
			strconv.FormatBool(record.IsDefault),
			strconv.FormatBool(record.TrackingOK),
		}
		if writeError := csvWriter.Write(row); writeError != nil {
			return fmt.Errorf(renderErrorTemplateConstant, FormatCSV, writeError)
		}
	}
	csvWriter.Flush()
	if flushError := csvWriter.Error(); flushError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatCSV, flushError)
	}
	return nil
}

// TableRenderer writes one aligned table per repository, in first-seen order, followed by the summary.
type TableRenderer struct {
	palette aurora.Aurora
}

type repositoryGroup struct {
	repository string
	records    []Record
}

// Render implements Renderer.
func (renderer TableRenderer) Render(writer io.Writer, document Document) error {
	palette := renderer.palette
	if palette == nil {
		palette = aurora.NewAurora(false)
	}

	var output strings.Builder
	fmt.Fprintf(&output, remoteTemplateConstant, document.Remote)
	if len(document.Branches) == 0 {
		output.WriteString(emptyReportMessageConstant)
	}

	for _, group := range groupByRepository(document.Branches) {
		output.WriteString("\n")
		fmt.Fprintf(&output, repositoryHeaderTemplateConstant, group.repository)

		rows := [][]string{{
			branchColumnHeaderConstant,
			statusColumnHeaderConstant,
			aheadColumnHeaderConstant,
			behindColumnHeaderConstant,
			localHashColumnHeaderConstant,
			remoteHashColumnHeaderConstant,
			remoteReferenceColumnHeaderConstant,
		}}
		markers := []string{nonDefaultBranchMarkerConstant}
		for _, record := range group.records {
			rows = append(rows, []string{
				record.Branch,
				record.Status,
				strconv.Itoa(record.Ahead),
				strconv.Itoa(record.Behind),
				record.LocalHash,
				record.RemoteHash,
				record.RemoteRef,
			})
			marker := nonDefaultBranchMarkerConstant
			if record.IsDefault {
				marker = defaultBranchMarkerConstant
			}
			markers = append(markers, marker)
		}

		columnWidths := measureColumns(rows)
		for rowIndex, row := range rows {
			output.WriteString(groupIndentConstant)
			output.WriteString(markers[rowIndex])
			output.WriteString(cellPaddingConstant)
			for columnIndex, cell := range row {
				renderedCell := cell
				if rowIndex > 0 && columnIndex == statusColumnIndexConstant {
					renderedCell = colorizeStatus(palette, cell)
				}
				output.WriteString(renderedCell)
				if columnIndex == len(row)-1 {
					continue
				}
				output.WriteString(strings.Repeat(cellPaddingConstant, columnWidths[columnIndex]-uniseg.StringWidth(cell)))
				output.WriteString(columnGapConstant)
			}
			output.WriteString("\n")
		}
	}

	summary := document.Summary
	output.WriteString("\n")
	fmt.Fprintf(&output, summaryTemplateConstant, summary.Synced, summary.AheadOnly, summary.BehindOnly, summary.Diverged, summary.Untracked)

	if _, writeError := io.WriteString(writer, output.String()); writeError != nil {
		return fmt.Errorf(renderErrorTemplateConstant, FormatTable, writeError)
	}
	return nil
}

func groupByRepository(records []Record) []repositoryGroup {
	var groups []repositoryGroup
	groupIndexes := make(map[string]int)
	for _, record := range records {
		groupIndex, exists := groupIndexes[record.Repository]
		if !exists {
			groupIndex = len(groups)
			groupIndexes[record.Repository] = groupIndex
			groups = append(groups, repositoryGroup{repository: record.Repository})
		}
		groups[groupIndex].records = append(groups[groupIndex].records, record)
	}
	return groups
}

func measureColumns(rows [][]string) []int {
	if len(rows) == 0 {
		return nil
	}
	columnWidths := make([]int, len(rows[0]))
	for _, row := range rows {
		for columnIndex, cell := range row {
			if cellWidth := uniseg.StringWidth(cell); cellWidth > columnWidths[columnIndex] {
				columnWidths[columnIndex] = cellWidth
			}
		}
	}
	return columnWidths
}

func colorizeStatus(palette aurora.Aurora, label string) string {
	switch label {
	case branchstatus.StatusSynced.Label():
		return palette.Green(label).String()
	case branchstatus.StatusAhead.Label():
		return palette.Cyan(label).String()
	case branchstatus.StatusBehind.Label():
		return palette.Yellow(label).String()
	case branchstatus.StatusDiverged.Label():
		return palette.Magenta(label).String()
	default:
		return palette.Red(label).String()
	}
}
