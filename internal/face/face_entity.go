package face

import (
	"time"

	"github.com/google/uuid"
)

type FaceEmbedding struct {
	EntryID    uuid.UUID `gorm:"column:entry_id;type:uuid;primaryKey"`
	EmployeeID int64     `gorm:"column:employee_id;not null;index"`
	Embedding  string    `gorm:"column:embedding;type:text;not null"` // JSON-serialized vector
	ImageURL   string    `gorm:"column:image_url;type:text"`
	Expression *string   `gorm:"column:expression;type:varchar(50)"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`

	Employee *OwnerRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (FaceEmbedding) TableName() string {
	return "face_embeddings"
}

// OwnerRef joins the minimum owner fields needed by listings.
type OwnerRef struct {
	ID             int64      `gorm:"primaryKey"`
	EmployeeNumber string     `gorm:"column:employee_number"`
	FirstName      string     `gorm:"column:first_name"`
	LastName       string     `gorm:"column:last_name"`
	PublicID       *uuid.UUID `gorm:"column:public_id"`
}

func (OwnerRef) TableName() string {
	return "employees"
}
