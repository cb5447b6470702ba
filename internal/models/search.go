package models

import "time"

// TicketFilter is the search state of the ticket list page.
// The same struct is bound by the server and synchronised with the URL by
// the client, so the form tags are the wire format.
type TicketFilter struct {
	CreatedFrom time.Time `form:"createdFrom" time_format:"2006-01-02" time_utc:"1"`
	CreatedTo   time.Time `form:"createdTo" time_format:"2006-01-02" time_utc:"1"`
	Status      *bool     `form:"status"`
	Name        string    `form:"name" binding:"max=255"`
	ProjectIDs  []int64   `form:"projectIds" binding:"dive,gt=0"`
	Assignees   []string  `form:"assignees"`
	Page        int       `form:"page,default=0" binding:"gte=0,lte=1000000"`
	Size        int       `form:"size,default=10" binding:"gte=1,lte=100"`
}

// ProjectFilter is the search state of the project list page.
type ProjectFilter struct {
	Status   *bool    `form:"status"`
	Name     string   `form:"name" binding:"max=255"`
	Managers []string `form:"managers"`
	Page     int      `form:"page,default=0" binding:"gte=0,lte=1000000"`
	Size     int      `form:"size,default=10" binding:"gte=1,lte=100"`
}
