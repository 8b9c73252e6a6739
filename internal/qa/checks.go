package qa

import (
	"math"

	"github.com/chemsmart/fmdqa/internal/schema"
)

// Comment literals are preserved byte-for-byte from the legacy checker,
// inconsistent prefixes and all; downstream tooling greps for them.
const (
	msgRevFlag       = "FMDRevFlag is Not Latest"
	msgMassVariation = "Multiple masses for the same homogeneous material"
	msgRowsCount     = "Rows count mismatch"
	msgMassMismatch  = "Fail: Mass mismatch"
	msgHomPercentage = "Fail: homogeneousPercentage sum != 100"
	msgHomPPM        = "Fail: homogeneousPPM sum != 1000000"
	msgCompPct       = "Fail: Component level percentage sum != 100"
	msgCompPPM       = "Fail: Component level PPM sum != 1000000"
	msgMassGap       = "Total VS Summation Gap is more than 50%"
	msgSoftwareIssue = "Software issue"
)

// notLatest is the revision-flag sentinel.
const notLatest = "Not Latest"

type checkFunc func(*chunk) error

// checks is the registry: every check runs exactly once per chunk, in
// this order. Findings accumulate in check order, so reordering entries
// changes output comments.
var checks = []struct {
	name string
	run  checkFunc
}{
	{"revision-flag", checkRevisionFlag},
	{"material-mass-variation", checkMaterialMassVariation},
	{"rows-count", checkRowsCount},
	{"material-mass", checkMaterialMass},
	{"substance-homogeneous-percentage", checkHomPercentage},
	{"substance-homogeneous-ppm", checkHomPPM},
	{"substance-component-percentage", checkCompPercentage},
	{"substance-component-ppm", checkCompPPM},
	{"mass-gap", checkMassGap},
	{"summation-consistency", checkSummation},
}

// checkRevisionFlag flags rows whose FMDRevFlag equals the "Not Latest"
// sentinel.
func checkRevisionFlag(c *chunk) error {
	for _, r := range c.rows {
		if c.tab.Cell(r, schema.FMDRevFlag) == notLatest {
			c.notes.add(r, msgRevFlag)
		}
	}
	return nil
}

// checkMaterialMassVariation flags every row of a (group, material) pair
// whose declared homogeneous-material mass is not uniform. Distinct-value
// count with exact float equality, no tolerance; blanks don't count as a
// distinct value.
func checkMaterialMassVariation(c *chunk) error {
	for _, g := range c.groups {
		for _, m := range g.mats {
			distinct := make(map[string]struct{})
			for _, r := range m.rows {
				v, ok, err := c.tab.Number(r, schema.HomogeneousMaterialMass)
				if err != nil {
					return err
				}
				if ok {
					distinct[numKey(v)] = struct{}{}
				}
			}
			if len(distinct) > 1 {
				c.notes.addAll(m.rows, msgMassVariation)
			}
		}
	}
	return nil
}

// checkRowsCount compares the declared expected row count against the
// observed rows per group. The declared count is carried on every row;
// each row is judged against its own declared value, so a group with a
// uniform wrong count gets flagged on all rows.
func checkRowsCount(c *chunk) error {
	for _, g := range c.groups {
		actual := float64(len(g.rows))
		for _, r := range g.rows {
			declared, ok, err := c.tab.Number(r, schema.RowsCount)
			if err != nil {
				return err
			}
			if ok && declared != actual {
				c.notes.add(r, msgRowsCount)
			}
		}
	}
	return nil
}

// checkMaterialMass sums substance mass per (group, material) and flags
// rows whose declared homogeneous-material mass differs from the sum by
// 1 or more (absolute, same unit as the mass column).
func checkMaterialMass(c *chunk) error {
	for _, g := range c.groups {
		for _, m := range g.mats {
			calc, err := c.sum(m.rows, schema.Mass)
			if err != nil {
				return err
			}
			for _, r := range m.rows {
				declared, ok, err := c.tab.Number(r, schema.HomogeneousMaterialMass)
				if err != nil {
					return err
				}
				if ok && math.Abs(calc-declared) >= 1 {
					c.notes.add(r, msgMassMismatch)
				}
			}
		}
	}
	return nil
}

// checkHomPercentage passes a (group, material) only when its substance
// percentage sum lands in [99.9, 100.1], boundaries inclusive.
func checkHomPercentage(c *chunk) error {
	return checkMaterialBand(c, schema.SubstanceHomPercentage, 99.9, 100.1, msgHomPercentage)
}

// checkHomPPM is the PPM-scaled sibling, band [999000, 1001000].
func checkHomPPM(c *chunk) error {
	return checkMaterialBand(c, schema.SubstanceHomPPM, 999000, 1001000, msgHomPPM)
}

// checkCompPercentage sums the component-level percentage per group (not
// sub-grouped by material), band [99, 101].
func checkCompPercentage(c *chunk) error {
	return checkGroupBand(c, schema.SubstanceCompPercentage, 99.0, 101.0, msgCompPct)
}

// checkCompPPM sums the component-level PPM per group, band
// [990000, 1010000].
func checkCompPPM(c *chunk) error {
	return checkGroupBand(c, schema.SubstanceCompPPM, 990000, 1010000, msgCompPPM)
}

func checkMaterialBand(c *chunk, col string, lo, hi float64, msg string) error {
	for _, g := range c.groups {
		for _, m := range g.mats {
			total, err := c.sum(m.rows, col)
			if err != nil {
				return err
			}
			if total < lo || total > hi {
				c.notes.addAll(m.rows, msg)
			}
		}
	}
	return nil
}

func checkGroupBand(c *chunk, col string, lo, hi float64, msg string) error {
	for _, g := range c.groups {
		total, err := c.sum(g.rows, col)
		if err != nil {
			return err
		}
		if total < lo || total > hi {
			c.notes.addAll(g.rows, msg)
		}
	}
	return nil
}

// checkMassGap flags a row when the profile and summation totals diverge
// by 50% or more of the profile total. A zero or missing profile total
// skips the row rather than dividing by zero; a missing summation total
// skips too.
func checkMassGap(c *chunk) error {
	for _, r := range c.rows {
		profile, okP, err := c.tab.Number(r, schema.TotalMassProfile)
		if err != nil {
			return err
		}
		summation, okS, err := c.tab.Number(r, schema.TotalMassSummation)
		if err != nil {
			return err
		}
		if !okP || profile == 0 || !okS {
			continue
		}
		if math.Abs(profile-summation)/profile*100 >= 50 {
			c.notes.add(r, msgMassGap)
		}
	}
	return nil
}

// checkSummation rounds the group's substance-mass sum to 4 decimals and
// compares it to the declared summation total on the group's first row.
// Rounded exact equality, deliberately no tolerance band; any mismatch
// (including a missing declared total) flags the entire group.
func checkSummation(c *chunk) error {
	for _, g := range c.groups {
		total, err := c.sum(g.rows, schema.Mass)
		if err != nil {
			return err
		}
		rounded := math.Round(total*1e4) / 1e4
		declared, ok, err := c.tab.Number(g.rows[0], schema.TotalMassSummation)
		if err != nil {
			return err
		}
		if !ok || rounded != declared {
			c.notes.addAll(g.rows, msgSoftwareIssue)
		}
	}
	return nil
}
