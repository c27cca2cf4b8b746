package district

import "time"

// District is a city subdivision reports are filed under. The list is
// maintained by the seeder and changes rarely.
type District struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;uniqueIndex" json:"name"`
	City      string    `gorm:"column:city" json:"city"`
	Lat       float64   `gorm:"column:lat" json:"lat"`
	Lng       float64   `gorm:"column:lng" json:"lng"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (District) TableName() string { return "districts" }
