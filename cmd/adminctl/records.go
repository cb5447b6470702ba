package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/orgdesk/internal/client"
	"github.com/stwalsh4118/orgdesk/internal/models"
	"github.com/stwalsh4118/orgdesk/internal/session"
	"github.com/stwalsh4118/orgdesk/internal/validation"
)

func newTicketAddCmd(a *app) *cobra.Command {
	var in models.TicketInput

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a ticket in a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			var modal session.Modal[models.Ticket]
			modal.OpenCreate()
			return submit(cmd, session.Submit(ctx, &modal, in, func(ctx context.Context, _ *models.Ticket, in models.TicketInput) error {
				t, err := a.client.CreateTicket(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created ticket %d %q in project %d\n", t.ID, t.Name, t.ProjectID)
				return nil
			}))
		},
	}

	cmd.Flags().Int64Var(&in.ProjectID, "project", 0, "Project id")
	cmd.Flags().StringVar(&in.Assignee, "assignee", "", "Assignee")
	cmd.Flags().StringVar(&in.Description, "description", "", "Description")
	cmd.Flags().BoolVar(&in.Active, "active", true, "Open the ticket as active")
	return cmd
}

func newTicketRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			if err := a.client.DeleteTicket(ctx, id); err != nil {
				return fmt.Errorf("failed to delete ticket %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted ticket %d\n", id)
			return nil
		},
	}
}

func newProjectAddCmd(a *app) *cobra.Command {
	var in models.ProjectInput

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			var modal session.Modal[models.Project]
			modal.OpenCreate()
			return submit(cmd, session.Submit(ctx, &modal, in, func(ctx context.Context, _ *models.Project, in models.ProjectInput) error {
				p, err := a.client.CreateProject(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created project %d %q\n", p.ID, p.Name)
				return nil
			}))
		},
	}

	cmd.Flags().StringVar(&in.Manager, "manager", "", "Project manager")
	cmd.Flags().BoolVar(&in.Active, "active", true, "Create the project as active")
	return cmd
}

func newProjectStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <active|inactive>",
		Short: "Activate or deactivate a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			active, err := parseStatus(args[1])
			if err != nil || active == nil {
				return fmt.Errorf("status must be active or inactive, got %q", args[1])
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			p, err := a.client.SetProjectStatus(ctx, id, *active)
			if err != nil {
				return fmt.Errorf("failed to update project %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "project %d is %s\n", p.ID, statusText(p.Active))
			return nil
		},
	}
}

func newCustomersCmd(a *app) *cobra.Command {
	customersCmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer intake",
	}

	var (
		in   models.CustomerInput
		kind string
		appt models.Appointment
	)
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a customer",
		Long: `Register a customer. Legal entities need --tax-id; --appointment-date
books a first meeting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Type = models.CustomerType(kind)
			in.HasAppointment = cmd.Flags().Changed("appointment-date")
			if in.HasAppointment {
				in.Appointment = &appt
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			var modal session.Modal[models.Customer]
			modal.OpenCreate()
			return submit(cmd, session.Submit(ctx, &modal, in, func(ctx context.Context, _ *models.Customer, in models.CustomerInput) error {
				c, err := a.client.CreateCustomer(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "registered customer %d %s %s\n", c.ID, c.FirstName, c.LastName)
				return nil
			}))
		},
	}

	f := addCmd.Flags()
	f.StringVar(&in.FirstName, "first-name", "", "First name")
	f.StringVar(&in.LastName, "last-name", "", "Last name")
	f.StringVar(&in.Phone, "phone", "", "Phone number")
	f.StringVar(&in.Email, "email", "", "Email")
	f.StringVar(&kind, "type", string(models.CustomerIndividual), "individual or legal")
	f.StringVar(&in.TaxID, "tax-id", "", "Tax id (legal entities)")
	f.StringVar(&appt.Date, "appointment-date", "", "First appointment (YYYY-MM-DD)")
	f.StringVar(&appt.Note, "appointment-note", "", "Appointment note")

	customersCmd.AddCommand(addCmd)
	return customersCmd
}

// submit prints per-field messages for a rejected form, whether the local
// check or the server refused it.
func submit(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	fields := validation.FieldErrors(err)
	var apiErr *client.APIError
	if fields == nil && errors.As(err, &apiErr) && client.IsValidation(err) {
		fields = apiErr.Details
	}
	for _, field := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", field, fields[field])
	}
	return err
}
