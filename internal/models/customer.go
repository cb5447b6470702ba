package models

import "time"

// CustomerType distinguishes private persons from companies.
type CustomerType string

// Customer types.
const (
	CustomerIndividual CustomerType = "individual"
	CustomerLegal      CustomerType = "legal"
)

// Appointment is the optional first meeting booked during intake.
type Appointment struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Note string `json:"note" binding:"max=500"`
}

// CustomerInput is the intake form submitted to POST /customers/add.
// TaxID is required for legal entities; Appointment is required when
// HasAppointment is set.
type CustomerInput struct {
	Appointment    *Appointment `json:"appointment,omitempty" binding:"required_if=HasAppointment true"`
	FirstName      string       `json:"firstName" binding:"required,max=100"`
	LastName       string       `json:"lastName" binding:"required,max=100"`
	Phone          string       `json:"phone" binding:"required,min=6,max=20"`
	Email          string       `json:"email" binding:"omitempty,email"`
	Type           CustomerType `json:"type" binding:"required,oneof=individual legal"`
	TaxID          string       `json:"taxId" binding:"required_if=Type legal,max=20"`
	HasAppointment bool         `json:"hasAppointment"`
}

// Customer is a stored intake record.
type Customer struct {
	CreatedAt time.Time `json:"createdAt"`
	CustomerInput
	ID int64 `json:"id"`
}
