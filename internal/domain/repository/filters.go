package repository

import "time"

// DateRangeFilter acota un listado por rango de fechas (ambos extremos opcionales).
type DateRangeFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}
