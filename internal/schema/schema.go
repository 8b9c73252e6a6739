// Package schema pins the logical field names of an FMD compliance sheet
// to the exact raw header strings the source files carry. Several headers
// include a trailing space; that space is part of the header and must
// match bit-exact, so all column lookups go through this table instead of
// hard-coding strings at call sites.
package schema

import (
	"fmt"
	"strings"
)

// Raw header strings, verbatim from the source sheets. Do not trim.
const (
	ChemicalID              = "ChemicalID"
	PartNumber              = "PartNumber"
	RowsCount               = "RowsCount "
	FMDRevFlag              = "FMDRevFlag"
	HomogeneousMaterialName = "HomogeneousMaterialName"
	HomogeneousMaterialMass = "HomogeneousMaterialMass "
	Mass                    = "Mass "
	SubstanceHomPercentage  = "SubstanceHomogeneousMaterialPercentage "
	SubstanceHomPPM         = "SubstanceHomogeneousMaterialPercentagePPM "
	SubstanceCompPercentage = "SubstanceComponentLevelPercentage "
	SubstanceCompPPM        = "SubstanceComponentLevelPPM "
	TotalMassProfile        = "TotalComponentMassProfile "
	TotalMassSummation      = "TotalComponentMassSummation "
)

// Comment is the failure-signal column appended to the output. When the
// input already carries it, its cell value seeds the row's findings.
const Comment = "Automated QA Comment"

// Required lists every column a sheet must have before validation runs.
var Required = []string{
	ChemicalID,
	PartNumber,
	RowsCount,
	FMDRevFlag,
	HomogeneousMaterialName,
	HomogeneousMaterialMass,
	Mass,
	SubstanceHomPercentage,
	SubstanceHomPPM,
	SubstanceCompPercentage,
	SubstanceCompPPM,
	TotalMassProfile,
	TotalMassSummation,
}

// MissingColumnsError reports every required column a sheet lacks. It is
// a schema error: the run aborts immediately and nothing is retried.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return "missing required column(s): " + strings.Join(quoted, ", ")
}

// Require verifies that every required column is present in headers and
// returns a single *MissingColumnsError naming all missing columns at
// once.
func Require(headers []string) error {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[h] = true
	}
	var missing []string
	for _, col := range Required {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}
