// Package ingest imports legacy journals into the vault. A dump is split on
// dated headings into one vault entry per day; existing entries are never
// overwritten unless asked.
package ingest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/quietloop/diarium/internal/vault"
)

// dateHeading matches a line that introduces a day's content in a legacy
// dump: a bare ISO date, optionally behind markdown heading markers or
// wiki-link brackets.
var dateHeading = regexp.MustCompile(`^#{0,3}\s*\[{0,2}(\d{4}-\d{2}-\d{2})\]{0,2}\s*$`)

// Result reports what an import run did.
type Result struct {
	Imported []string
	Skipped  []string
}

type Importer struct {
	vault     *vault.Vault
	overwrite bool
}

func NewImporter(v *vault.Vault, overwrite bool) *Importer {
	return &Importer{vault: v, overwrite: overwrite}
}

// ImportText splits content on dated headings and writes one entry per date.
// Text before the first dated heading is ignored. Dates that fail to parse
// are reported as errors rather than silently dropped.
func (im *Importer) ImportText(content string) (Result, error) {
	var res Result

	sections := splitDated(content)
	if len(sections) == 0 {
		return Result{}, fmt.Errorf("no dated headings found in import source")
	}

	for _, sec := range sections {
		date, err := vault.ParseDate(sec.date)
		if err != nil {
			return res, fmt.Errorf("import section %q: %w", sec.date, err)
		}
		if !im.overwrite && im.vault.Exists(date) {
			res.Skipped = append(res.Skipped, sec.date)
			continue
		}
		if err := im.vault.Write(date, strings.TrimSpace(sec.body)+"\n"); err != nil {
			return res, fmt.Errorf("writing imported entry %s: %w", sec.date, err)
		}
		res.Imported = append(res.Imported, sec.date)
	}
	return res, nil
}

// ImportFile reads a markdown or plain-text dump from disk and imports it.
func (im *Importer) ImportFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading import file: %w", err)
	}
	return im.ImportText(string(data))
}

type datedSection struct {
	date string
	body string
}

func splitDated(content string) []datedSection {
	var sections []datedSection
	var current *datedSection

	for _, line := range strings.Split(content, "\n") {
		if m := dateHeading.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &datedSection{date: m[1]}
			continue
		}
		if current != nil {
			current.body += line + "\n"
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}
