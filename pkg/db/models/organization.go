package models

// Organization mirrors an upstream animal-welfare organization. The id is assigned
// by the upstream API and never regenerated locally.
type Organization struct {
	ID       string  `gorm:"column:id;type:text;primaryKey"`
	Name     string  `gorm:"column:name;not null"`
	Email    string  `gorm:"column:email;not null"`
	Phone    *string `gorm:"column:phone"`
	Address  *string `gorm:"column:address"`
	City     string  `gorm:"column:city;not null"`
	State    string  `gorm:"column:state;not null"`
	Postcode string  `gorm:"column:postcode;not null"`
	Country  string  `gorm:"column:country;not null"`
	URL      string  `gorm:"column:url;not null"`
	ImageURL *string `gorm:"column:image_url"`
}

func (Organization) TableName() string { return "organizations" }
