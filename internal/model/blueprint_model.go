package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Blueprint struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title      string         `gorm:"type:text"`
	Config     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
}

func (Blueprint) TableName() string {
	return "blueprints"
}

type BlueprintItem struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BlueprintId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	No             int            `gorm:"not null"`
	Type           string         `gorm:"type:varchar(8);not null"`
	Cognitive      string         `gorm:"type:varchar(8);not null"`
	Difficulty     string         `gorm:"type:varchar(8);not null"`
	Objective      string         `gorm:"type:text"`
	SourceChunkIds datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
}

func (BlueprintItem) TableName() string {
	return "blueprint_items"
}
