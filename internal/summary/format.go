package summary

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
)

// displayDecimals is the fixed rounding precision of all float columns.
const displayDecimals = 4

// Round rounds v to the display precision.
func Round(v float64) float64 {
	pow := math.Pow(10, displayDecimals)
	return math.Round(v*pow) / pow
}

// Format rounds every float column in place and sorts rows by education mean
// descending. The sort is stable and rows arrive in state-code-ascending
// order, so ties keep that order. Rows without an education mean sort last.
func Format(rows []Row) {
	for i := range rows {
		if rows[i].EducationMean != nil {
			r := Round(*rows[i].EducationMean)
			rows[i].EducationMean = &r
		}
		rows[i].InsuredRate = Round(rows[i].InsuredRate)
		if rows[i].HomicideRate != nil {
			r := Round(*rows[i].HomicideRate)
			rows[i].HomicideRate = &r
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].EducationMean, rows[j].EducationMean
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})
}

// WriteCSV emits the formatted table. With homicides, the header is
// "state,education,insured_rate,homicides"; the describe strategy omits the
// homicides column. Nil values render as empty fields, never as a dropped
// row.
func WriteCSV(w io.Writer, rows []Row, withHomicides bool) error {
	cw := csv.NewWriter(w)

	header := []string{"state", "education", "insured_rate"}
	if withHomicides {
		header = append(header, "homicides")
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "summary: write header")
	}

	for _, r := range rows {
		record := []string{r.StateName, formatFloat(r.EducationMean), formatFloatV(r.InsuredRate)}
		if withHomicides {
			record = append(record, formatFloat(r.HomicideRate))
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "summary: write row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "summary: flush")
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloatV(*v)
}

func formatFloatV(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
