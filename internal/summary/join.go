// Package summary reconciles the two per-state aggregates into the final
// ordered table.
package summary

import (
	"go.uber.org/zap"

	"github.com/sells-group/geostat-cli/internal/aggregate"
	"github.com/sells-group/geostat-cli/internal/transform"
)

// JoinMode records which join strategy produced the result.
type JoinMode string

const (
	JoinInner JoinMode = "inner"
	JoinLeft  JoinMode = "left"
)

// Row is one joined state in the output table.
type Row struct {
	StateFIPS int

	// StateName is empty when the code is absent from the name table; such
	// rows are still emitted.
	StateName string

	EducationMean *float64
	InsuredRate   float64
	HomicideRate  *float64
}

// Result is the outcome of joining the two aggregates.
type Result struct {
	Rows []Row
	Mode JoinMode

	// MissingHomicide counts emitted rows without homicide data. Under a
	// degraded left join this is the diagnostic the caller surfaces to
	// flag a key mismatch between the two sources.
	MissingHomicide int
}

// Join combines microdata aggregates with per-state homicide rates on the
// state code. It tries an inner join first; if no joined row carries
// homicide data the join degrades to a left join with the microdata side
// authoritative, so a key mismatch yields a diagnosable table instead of an
// empty one. Missing values stay nil either way.
func Join(micro []aggregate.MicroState, rates map[int]*float64) Result {
	inner := build(micro, rates, JoinInner)
	if countWithHomicide(inner.Rows) > 0 {
		return inner
	}

	left := build(micro, rates, JoinLeft)
	zap.L().Warn("inner join produced no homicide data, degrading to left join",
		zap.Int("microdata_states", len(micro)),
		zap.Int("health_states", len(rates)),
		zap.Int("states_missing_homicide", left.MissingHomicide),
	)
	return left
}

// build walks micro in state-code order, so ties later in the stable sort
// keep code-ascending order.
func build(micro []aggregate.MicroState, rates map[int]*float64, mode JoinMode) Result {
	res := Result{Mode: mode}
	for _, m := range micro {
		rate, present := rates[m.StateFIPS]
		if mode == JoinInner && !present {
			continue
		}

		row := Row{
			StateFIPS:     m.StateFIPS,
			EducationMean: m.EducationMean,
			InsuredRate:   m.InsuredRate,
			HomicideRate:  rate,
		}
		if name, ok := transform.StateName(m.StateFIPS); ok {
			row.StateName = name
		} else {
			zap.L().Debug("unresolved state code",
				zap.String("state_fips", transform.FormatFIPS(m.StateFIPS, 2)))
		}
		if row.HomicideRate == nil {
			res.MissingHomicide++
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

// FromMicrodata builds rows from the microdata aggregate alone, for the
// descriptive strategy that never touches health data.
func FromMicrodata(micro []aggregate.MicroState) []Row {
	return build(micro, nil, JoinLeft).Rows
}

func countWithHomicide(rows []Row) int {
	n := 0
	for _, r := range rows {
		if r.HomicideRate != nil {
			n++
		}
	}
	return n
}
