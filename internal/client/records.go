package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/searchstate"
)

// SearchTickets returns one page of tickets. f is sent with the same
// encoding the list page keeps in its URL.
func (c *Client) SearchTickets(ctx context.Context, f models.TicketFilter) (models.Page[models.Ticket], error) {
	var page models.Page[models.Ticket]
	query, err := searchstate.Encode(f)
	if err != nil {
		return page, err
	}
	err = c.get(ctx, "/tickets/search", query, &page)
	return page, err
}

// SearchProjects returns one page of projects.
func (c *Client) SearchProjects(ctx context.Context, f models.ProjectFilter) (models.Page[models.Project], error) {
	var page models.Page[models.Project]
	query, err := searchstate.Encode(f)
	if err != nil {
		return page, err
	}
	err = c.get(ctx, "/projects/search", query, &page)
	return page, err
}

// CreateTicket adds a ticket to a project.
func (c *Client) CreateTicket(ctx context.Context, in models.TicketInput) (*models.Ticket, error) {
	var t models.Ticket
	if err := c.post(ctx, "/tickets/add", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTicket removes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/tickets", url.Values{"id": {strconv.FormatInt(id, 10)}}, nil, nil)
}

// CreateProject adds a project.
func (c *Client) CreateProject(ctx context.Context, in models.ProjectInput) (*models.Project, error) {
	var p models.Project
	if err := c.post(ctx, "/projects/add", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetProjectStatus activates or deactivates a project.
func (c *Client) SetProjectStatus(ctx context.Context, id int64, active bool) (*models.Project, error) {
	var p models.Project
	query := url.Values{
		"id":     {strconv.FormatInt(id, 10)},
		"active": {strconv.FormatBool(active)},
	}
	if err := c.do(ctx, http.MethodPatch, "/projects/status", query, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateCustomer submits an intake form.
func (c *Client) CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	var cust models.Customer
	if err := c.post(ctx, "/customers/add", in, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// Info is the server's /info payload.
type Info struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Storage     string `json:"storage"`
	Uptime      string `json:"uptime"`
}

// Info returns version and uptime of the server.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var info Info
	if err := c.get(ctx, "/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
