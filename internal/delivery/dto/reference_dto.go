package dto

import "github.com/shopspring/decimal"

type SpecialtyResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type BranchResponse struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	OpeningHours string `json:"opening_hours,omitempty"`
	Active       bool   `json:"active"`
}

type AppointmentTypeResponse struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Fee         decimal.Decimal `json:"fee"`
	Active      bool            `json:"active"`
}
