package health

// County is one validated county-level health record.
type County struct {
	// FIPS is the 5-digit zero-padded county identifier. Records whose
	// identifier fails 5-digit-numeric validation never become a County.
	FIPS      string
	StateFIPS int

	// Homicides and Population are nil when the source field is blank or
	// malformed. Negative values are treated as malformed.
	Homicides  *float64
	Population *float64
}

// RatePer100k returns the county homicide rate per 100,000 population, nil
// when the count is missing or the population is missing or non-positive.
func (c County) RatePer100k() *float64 {
	if c.Homicides == nil || c.Population == nil || *c.Population <= 0 {
		return nil
	}
	rate := *c.Homicides / *c.Population * 100000
	return &rate
}
