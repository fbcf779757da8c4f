package gitmodules

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

const (
	configNotFoundMessageConstant   = "gitmodules configuration not found"
	configReadErrorTemplateConstant = "read %s: %w"
	configNotFoundTemplateConstant  = "%w: %s"
	keyValueSeparatorConstant       = "="
	hashCommentPrefixConstant       = "#"
	semicolonCommentPrefixConstant  = ";"
	pathKeyConstant                 = "path"
	urlKeyConstant                  = "url"
	upstreamKeyConstant             = "upstream"
)

// ErrConfigNotFound indicates the .gitmodules file does not exist.
var ErrConfigNotFound = errors.New(configNotFoundMessageConstant)

var (
	submoduleHeaderPattern = regexp.MustCompile(`^\[submodule\s+"([^"]+)"\s*\]$`)
	sectionHeaderPattern   = regexp.MustCompile(`^\[[^\]]*\]$`)
)

// SubmoduleEntry is one [submodule "NAME"] block.
type SubmoduleEntry struct {
	Name     string
	Path     string
	URL      string
	Upstream string
}

// HasPath reports whether the entry declares a working tree path.
func (entry SubmoduleEntry) HasPath() bool {
	return len(entry.Path) > 0
}

// HasUpstream reports whether the entry declares an upstream URL.
func (entry SubmoduleEntry) HasUpstream() bool {
	return len(entry.Upstream) > 0
}

// FileReader reads whole files.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Parse maps submodule names to their entries. It never fails.
// A repeated header reopens the existing entry; a non-submodule section closes the current one.
func Parse(content string) map[string]SubmoduleEntry {
	entries := make(map[string]SubmoduleEntry)
	currentName := ""
	entryOpen := false

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, hashCommentPrefixConstant) || strings.HasPrefix(line, semicolonCommentPrefixConstant) {
			continue
		}

		if headerMatch := submoduleHeaderPattern.FindStringSubmatch(line); headerMatch != nil {
			currentName = headerMatch[1]
			entryOpen = true
			if _, exists := entries[currentName]; !exists {
				entries[currentName] = SubmoduleEntry{Name: currentName}
			}
			continue
		}

		if sectionHeaderPattern.MatchString(line) {
			entryOpen = false
			continue
		}

		if !entryOpen {
			continue
		}

		key, value, separatorFound := strings.Cut(line, keyValueSeparatorConstant)
		if !separatorFound {
			continue
		}
		entry := entries[currentName]
		switch strings.ToLower(strings.TrimSpace(key)) {
		case pathKeyConstant:
			entry.Path = strings.TrimSpace(value)
		case urlKeyConstant:
			entry.URL = strings.TrimSpace(value)
		case upstreamKeyConstant:
			entry.Upstream = strings.TrimSpace(value)
		default:
			continue
		}
		entries[currentName] = entry
	}

	return entries
}

// Load reads and parses the file at path. A missing file yields ErrConfigNotFound.
func Load(reader FileReader, path string) (map[string]SubmoduleEntry, error) {
	content, readError := reader.ReadFile(path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, fmt.Errorf(configNotFoundTemplateConstant, ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf(configReadErrorTemplateConstant, path, readError)
	}
	return Parse(string(content)), nil
}

// SortedEntries returns the entries ordered by submodule name.
func SortedEntries(entries map[string]SubmoduleEntry) []SubmoduleEntry {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	sortedEntries := make([]SubmoduleEntry, 0, len(names))
	for _, name := range names {
		sortedEntries = append(sortedEntries, entries[name])
	}
	return sortedEntries
}
