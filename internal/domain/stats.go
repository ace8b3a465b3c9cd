package domain

// OperatorStats summarizes the loaded inventory for one operator.
type OperatorStats struct {
	Operator   Operator `json:"operator" db:"operator"`
	TotalSites int      `json:"total_sites" db:"total_sites"`
	Sites2G    int      `json:"sites_2g" db:"sites_2g"`
	Sites3G    int      `json:"sites_3g" db:"sites_3g"`
	Sites4G    int      `json:"sites_4g" db:"sites_4g"`
}
