package domain

// AggregateCoverage reduces the sites found within a search radius to one
// coverage record per operator. For each technology the result is the OR
// across every site of that operator: a single 4G site anywhere in range is
// enough to report 4G for the operator.
//
// Operators with no site in range are absent from the map. Absence means "no
// data within radius", which is a different statement than confirmed
// all-false coverage.
func AggregateCoverage(sites []MobileSite) map[Operator]TechnologyCoverage {
	result := make(map[Operator]TechnologyCoverage)

	for _, site := range sites {
		cov := result[site.Operator]
		cov.Has2G = cov.Has2G || site.Coverage.Has2G
		cov.Has3G = cov.Has3G || site.Coverage.Has3G
		cov.Has4G = cov.Has4G || site.Coverage.Has4G
		result[site.Operator] = cov
	}

	return result
}
