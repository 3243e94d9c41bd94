package models

// Pet mirrors an upstream animal listing.
type Pet struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name           string  `gorm:"column:name;not null"`
	Type           string  `gorm:"column:type;not null"`
	Species        string  `gorm:"column:species;not null"`
	Breed          string  `gorm:"column:breed;not null"`
	Color          string  `gorm:"column:color;not null"`
	Age            string  `gorm:"column:age;not null"`
	Gender         string  `gorm:"column:gender;not null"`
	Size           string  `gorm:"column:size;not null"`
	Status         string  `gorm:"column:status;not null"`
	Description    *string `gorm:"column:description"`
	ImageURL       *string `gorm:"column:image_url"`
	OrganizationID string  `gorm:"column:organization_id;type:text;not null;index:pets_organization_id_idx"`
}

func (Pet) TableName() string { return "pets" }
