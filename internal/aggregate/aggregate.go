// Package aggregate groups streamed records into per-state aggregates.
//
// Two strategies exist because the two sources demand different semantics:
// microdata uses a plain unweighted mean, health data uses a population-
// weighted ratio of sums. Both accumulate incrementally so a pass never
// materializes its raw table.
package aggregate

import (
	"sort"

	"github.com/sells-group/geostat-cli/internal/health"
	"github.com/sells-group/geostat-cli/internal/microdata"
)

// MicroState is one state's microdata aggregate.
type MicroState struct {
	StateFIPS int

	// EducationMean is the unweighted mean attainment level over records
	// with a known education value, nil when a state has none.
	EducationMean *float64

	// InsuredRate is the fraction of records reporting coverage, over all
	// records (unknown coverage counts in the denominator).
	InsuredRate float64

	Persons int64
}

// Microdata accumulates person records into per-state education and
// insurance aggregates. Every record contributes equally: the sampling
// weight is deliberately not applied, a documented simplification that
// keeps these figures comparable with the unweighted reference output.
type Microdata struct {
	states map[int]*microAcc
}

type microAcc struct {
	persons      int64
	insured      int64
	educationSum float64
	educationN   int64
}

// NewMicrodata returns an empty microdata aggregator.
func NewMicrodata() *Microdata {
	return &Microdata{states: make(map[int]*microAcc)}
}

// Add folds one person record into its state's accumulator.
func (a *Microdata) Add(p microdata.Person) {
	acc := a.states[p.StateFIPS]
	if acc == nil {
		acc = &microAcc{}
		a.states[p.StateFIPS] = acc
	}
	acc.persons++
	if p.Insurance == microdata.InsuranceYes {
		acc.insured++
	}
	if p.Education != nil {
		acc.educationSum += float64(*p.Education)
		acc.educationN++
	}
}

// States returns the per-state aggregates ordered by state code ascending.
func (a *Microdata) States() []MicroState {
	out := make([]MicroState, 0, len(a.states))
	for code, acc := range a.states {
		s := MicroState{
			StateFIPS:   code,
			InsuredRate: float64(acc.insured) / float64(acc.persons),
			Persons:     acc.persons,
		}
		if acc.educationN > 0 {
			mean := acc.educationSum / float64(acc.educationN)
			s.EducationMean = &mean
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StateFIPS < out[j].StateFIPS })
	return out
}

// Health accumulates county records into per-state homicide rates using
// ratio-of-sums weighting: sum of counts over sum of populations, per
// 100,000. Counties missing either value, or with a non-positive population,
// are excluded from the ratio but still mark their state as present.
type Health struct {
	states map[int]*healthAcc
}

type healthAcc struct {
	homicides  float64
	population float64
	counties   int64
	skipped    int64
}

// NewHealth returns an empty health aggregator.
func NewHealth() *Health {
	return &Health{states: make(map[int]*healthAcc)}
}

// Add folds one county record into its state's accumulator.
func (a *Health) Add(c health.County) {
	acc := a.states[c.StateFIPS]
	if acc == nil {
		acc = &healthAcc{}
		a.states[c.StateFIPS] = acc
	}
	acc.counties++
	if c.Homicides == nil || c.Population == nil || *c.Population <= 0 {
		acc.skipped++
		return
	}
	acc.homicides += *c.Homicides
	acc.population += *c.Population
}

// Rates returns the per-state homicide rate per 100,000. States present in
// the source but with no usable county carry a nil rate; they still
// participate in joins as present keys.
func (a *Health) Rates() map[int]*float64 {
	out := make(map[int]*float64, len(a.states))
	for code, acc := range a.states {
		if acc.population > 0 {
			rate := acc.homicides / acc.population * 100000
			out[code] = &rate
		} else {
			out[code] = nil
		}
	}
	return out
}
