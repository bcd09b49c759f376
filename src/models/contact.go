package models

import (
	"pcs/src/types"
)

type ContactMessage struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Message string `json:"message,omitempty"`
	Read    bool   `json:"read"`

	types.Timestamps
}
