package archive

import (
	"time"

	"gorm.io/datatypes"
)

// CourseRecord is one saved version of a named course. Saving a name again
// adds a new version; loads return the newest.
type CourseRecord struct {
	ID         uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	UUID       string         `json:"uuid" gorm:"size:36;uniqueIndex"`
	Name       string         `json:"name" gorm:"size:255;index:idx_course_name"`
	ConeCount  int            `json:"coneCount"`
	PathLength float64        `json:"pathLength"`
	PathWKT    string         `json:"pathWkt" gorm:"type:text"`
	Data       datatypes.JSON `json:"data"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"index"`
}

// TableName sets the table name.
func (*CourseRecord) TableName() string {
	return "courses"
}

// Summary describes a saved course without its data.
type Summary struct {
	Name       string    `json:"name"`
	UUID       string    `json:"uuid"`
	ConeCount  int       `json:"coneCount"`
	PathLength float64   `json:"pathLength"`
	Versions   int       `json:"versions"`
	SavedAt    time.Time `json:"savedAt"`
}
