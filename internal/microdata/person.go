package microdata

import (
	"github.com/sells-group/geostat-cli/internal/fixedwidth"
)

// Column spans dictated by the upstream data dictionary. These offsets are a
// frozen external contract; do not derive them from data at run time.
var personSchema = fixedwidth.Schema{
	{Name: "year", Start: 0, End: 4},
	{Name: "sample", Start: 4, End: 10},
	{Name: "serial", Start: 10, End: 18},
	{Name: "statefip", Start: 54, End: 56},
	{Name: "countyfip", Start: 56, End: 59},
	{Name: "gq", Start: 71, End: 72},
	{Name: "pernum", Start: 72, End: 76},
	{Name: "perwt", Start: 76, End: 86},
	{Name: "hcovany", Start: 86, End: 87},
	{Name: "educ", Start: 87, End: 89},
	{Name: "educd", Start: 89, End: 92},
}

// Insurance is the microdata health-coverage flag.
type Insurance int

const (
	InsuranceUnknown Insurance = 0
	InsuranceNo      Insurance = 1
	InsuranceYes     Insurance = 2
)

const educationMissing = 99

// Person is one decoded microdata record. Values are immutable once decoded;
// records stream through aggregation and are not retained.
type Person struct {
	Year       int
	Sample     int
	Serial     int64
	StateFIPS  int
	CountyFIPS int
	GQ         int
	PerNum     int

	// Weight is the person sampling weight. It is decoded but deliberately
	// not applied by the aggregators; see aggregate.Microdata.
	Weight float64

	Insurance Insurance

	// Education is the ordinal attainment level (0-11), nil when the field
	// is blank, malformed, or carries the missing sentinel.
	Education       *int
	EducationDetail *int
}

// groupQuartersEligible reports whether a GQ code denotes the household /
// non-institutional population that participates in aggregation.
func groupQuartersEligible(gq int) bool {
	switch gq {
	case 1, 2, 5:
		return true
	default:
		return false
	}
}

// decodePerson turns one fixed-width record into a Person. The bool is false
// when the record carries no usable state code and must be dropped.
func decodePerson(rec fixedwidth.Record) (Person, bool) {
	state := rec.Int("statefip")
	if state == nil {
		return Person{}, false
	}

	p := Person{
		StateFIPS: *state,
		Insurance: InsuranceUnknown,
	}
	if v := rec.Int("year"); v != nil {
		p.Year = *v
	}
	if v := rec.Int("sample"); v != nil {
		p.Sample = *v
	}
	if v := rec.Int64("serial"); v != nil {
		p.Serial = *v
	}
	if v := rec.Int("countyfip"); v != nil {
		p.CountyFIPS = *v
	}
	if v := rec.Int("gq"); v != nil {
		p.GQ = *v
	}
	if v := rec.Int("pernum"); v != nil {
		p.PerNum = *v
	}
	if v := rec.Float("perwt"); v != nil {
		p.Weight = *v
	}
	if v := rec.Int("hcovany"); v != nil && *v >= 0 && *v <= 2 {
		p.Insurance = Insurance(*v)
	}
	if v := rec.Int("educ"); v != nil && *v != educationMissing {
		p.Education = v
	}
	if v := rec.Int("educd"); v != nil {
		p.EducationDetail = v
	}
	return p, true
}
