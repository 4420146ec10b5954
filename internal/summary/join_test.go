package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/geostat-cli/internal/aggregate"
)

func fptr(v float64) *float64 { return &v }

func micro(state int, educ float64, insured float64) aggregate.MicroState {
	return aggregate.MicroState{StateFIPS: state, EducationMean: &educ, InsuredRate: insured}
}

func TestJoinInner(t *testing.T) {
	micros := []aggregate.MicroState{
		micro(1, 6.5, 0.8),
		micro(6, 7.2, 0.9),
		micro(36, 7.0, 0.85),
	}
	rates := map[int]*float64{6: fptr(4.2), 36: fptr(3.1), 48: fptr(5.0)}

	res := Join(micros, rates)
	assert.Equal(t, JoinInner, res.Mode)
	require.Len(t, res.Rows, 2, "only states on both sides survive an inner join")
	assert.Equal(t, 0, res.MissingHomicide)

	assert.Equal(t, 6, res.Rows[0].StateFIPS)
	assert.Equal(t, "California", res.Rows[0].StateName)
	require.NotNil(t, res.Rows[0].HomicideRate)
	assert.InDelta(t, 4.2, *res.Rows[0].HomicideRate, 1e-12)
}

func TestJoinDegradesToLeftOnDisjointKeys(t *testing.T) {
	micros := []aggregate.MicroState{
		micro(1, 6.5, 0.8),
		micro(2, 7.2, 0.9),
		micro(4, 7.0, 0.85),
	}
	rates := map[int]*float64{9: fptr(1.0), 10: fptr(2.0), 11: fptr(3.0)}

	res := Join(micros, rates)
	assert.Equal(t, JoinLeft, res.Mode)
	require.Len(t, res.Rows, 3, "microdata side is authoritative after degradation")
	assert.Equal(t, 3, res.MissingHomicide)
	for _, r := range res.Rows {
		assert.Nil(t, r.HomicideRate, "missing values stay missing, never fabricated")
	}
}

func TestJoinDegradesWhenAllRatesNil(t *testing.T) {
	// States overlap but no joined row carries homicide data; that is the
	// same diagnostic situation as a key mismatch.
	micros := []aggregate.MicroState{micro(6, 7.2, 0.9)}
	rates := map[int]*float64{6: nil}

	res := Join(micros, rates)
	assert.Equal(t, JoinLeft, res.Mode)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, 1, res.MissingHomicide)
}

func TestJoinUnresolvedStateCodeKeepsRow(t *testing.T) {
	micros := []aggregate.MicroState{micro(97, 5.0, 0.5)}
	rates := map[int]*float64{97: fptr(2.0)}

	res := Join(micros, rates)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "", res.Rows[0].StateName)
	require.NotNil(t, res.Rows[0].HomicideRate)
}
