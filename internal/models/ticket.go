package models

import "time"

// Ticket is a project-management work item.
type Ticket struct {
	CreatedAt   time.Time `json:"createdAt"`
	Assignee    string    `json:"assignee,omitempty"`
	Description string    `json:"description,omitempty"`
	Name        string    `json:"name"`
	ProjectID   int64     `json:"projectId"`
	ID          int64     `json:"id"`
	Active      bool      `json:"status"`
}

// TicketInput is the body of POST /tickets/add.
type TicketInput struct {
	Assignee    string `json:"assignee" binding:"max=100"`
	Description string `json:"description" binding:"max=4000"`
	Name        string `json:"name" binding:"required,max=255"`
	ProjectID   int64  `json:"projectId" binding:"required,gt=0"`
	Active      bool   `json:"status"`
}

// Project groups tickets.
type Project struct {
	CreatedAt time.Time `json:"createdAt"`
	Manager   string    `json:"manager,omitempty"`
	Name      string    `json:"name"`
	ID        int64     `json:"id"`
	Active    bool      `json:"status"`
}

// ProjectInput is the body of POST /projects/add.
type ProjectInput struct {
	Manager string `json:"manager" binding:"max=100"`
	Name    string `json:"name" binding:"required,max=255"`
	Active  bool   `json:"status"`
}
