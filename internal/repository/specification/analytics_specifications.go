package specification

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Recent returns the newest analytics rows first.
func Recent(limit int) []Specification {
	return []Specification{
		OrderBy{Field: "timestamp", Desc: true},
		Pagination{Limit: limit},
	}
}

// MostAsked returns the most frequent questions first.
func MostAsked(limit int) []Specification {
	return []Specification{
		OrderBy{Field: "count", Desc: true},
		Pagination{Limit: limit},
	}
}

// Since filters rows recorded at or after t.
type Since struct {
	Time time.Time
}

func (s Since) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(clause.Gte{Column: clause.Column{Name: "timestamp"}, Value: s.Time})
}
