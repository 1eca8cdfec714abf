package schema

import (
	"strings"
)

// columnAliases maps normalized header names to canonical column names.
// Headers are matched after lowercasing and stripping whitespace,
// underscores, and hyphens, so "Organization Name" and "organization_name"
// both resolve through the same entry.
var columnAliases = map[string]string{
	// Name
	"name":          ColName,
	"appointee":     ColName,
	"appointeename": ColName,
	"fullname":      ColName,
	"personname":    ColName,

	// Position
	"position":         ColPosition,
	"positiontitle":    ColPosition,
	"appointment":      ColPosition,
	"appointmenttitle": ColPosition,
	"title":            ColPosition,
	"role":             ColPosition,

	// Organization
	"org":              ColOrg,
	"orgname":          ColOrg,
	"organization":     ColOrg,
	"organisation":     ColOrg,
	"organizationname": ColOrg,
	"department":       ColOrg,
	"agency":           ColOrg,
	"ministry":         ColOrg,
	"branch":           ColOrg,

	// Reappointed flag
	"reappointed":   ColReappointed,
	"reappointment": ColReappointed,
	"isreappointed": ColReappointed,
	"reappointflag": ColReappointed,

	// Year
	"year":            ColYear,
	"appointmentyear": ColYear,
	"fiscalyear":      ColYear,
	"sourceyear":      ColYear,
	"datayear":        ColYear,
}

// ColumnMap maps canonical column names to the source header that supplies
// them. Canonical columns with no resolvable source header are absent.
type ColumnMap map[string]string

// ResolveColumns matches raw CSV headers against the alias table and
// returns the canonical-to-source mapping. The first header resolving to a
// canonical column wins; later duplicates are ignored.
func ResolveColumns(headers []string) ColumnMap {
	result := make(ColumnMap, len(RequiredColumns))
	for _, header := range headers {
		canonical, ok := columnAliases[normalizeHeader(header)]
		if !ok {
			continue
		}
		if _, taken := result[canonical]; !taken {
			result[canonical] = header
		}
	}
	return result
}

// MissingRequired returns the required canonical columns the map does not
// cover, in the order of RequiredColumns.
func (m ColumnMap) MissingRequired() []string {
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := m[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// normalizeHeader lowercases a header and strips whitespace, underscores,
// and hyphens.
func normalizeHeader(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
