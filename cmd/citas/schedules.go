package main

import (
	"fmt"
	"strconv"
	"strings"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *app) schedulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Weekly schedule templates",
	}

	var filter dto.ScheduleTemplateListRequest
	list := &cobra.Command{
		Use:   "list",
		Short: "List schedule templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := a.source.Templates(cmd.Context(), &filter)
			if err != nil {
				return err
			}
			printTemplates(a.out, templates)
			return nil
		},
	}
	list.Flags().StringVar(&filter.PhysicianID, "physician", "", "Physician id")
	list.Flags().IntVar(&filter.BranchID, "branch", 0, "Branch id")
	list.Flags().IntVar(&filter.DayOfWeek, "day", 0, "Day of week, 1=Monday..7=Sunday")

	var physician string
	var branchID int
	var windows []string
	var notes string
	add := &cobra.Command{
		Use:     "add",
		Short:   "Assign one or more weekly windows to a physician",
		Example: "  citas schedules add --physician <id> --branch 1 --window 1@08:00-12:00/30 --window 3@14:00-18:00/20",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &dto.CreateScheduleTemplatesRequest{}
			if physician != "" {
				id, err := parseID("physician", physician)
				if err != nil {
					return err
				}
				req.PhysicianID = id
			}
			for _, w := range windows {
				tpl, err := parseWindow(w)
				if err != nil {
					return err
				}
				tpl.BranchID = branchID
				tpl.Notes = notes
				req.Templates = append(req.Templates, tpl)
			}
			if err := a.validator.Check(req); err != nil {
				return err
			}

			created, err := a.client.CreateSchedules(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created %d schedule template(s)\n", created.Total)
			printTemplates(a.out, created.Templates)
			return nil
		},
	}
	add.Flags().StringVar(&physician, "physician", "", "Physician id (physicians may omit it)")
	add.Flags().IntVar(&branchID, "branch", 0, "Branch id")
	add.Flags().StringArrayVar(&windows, "window", nil, "DAY@HH:mm-HH:mm/MINUTES, repeatable")
	add.Flags().StringVar(&notes, "notes", "", "Notes for every window")

	var upd dto.ScheduleTemplateRequest
	var window string
	var active bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace one schedule template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIntArg("id", args[0])
			if err != nil {
				return err
			}
			tpl, err := parseWindow(window)
			if err != nil {
				return err
			}
			tpl.BranchID = upd.BranchID
			tpl.Notes = upd.Notes
			if cmd.Flags().Changed("active") {
				tpl.Active = &active
			}
			if err := a.validator.Check(&tpl); err != nil {
				return err
			}

			updated, err := a.client.UpdateSchedule(cmd.Context(), id, &tpl)
			if err != nil {
				return err
			}
			printTemplates(a.out, []dto.ScheduleTemplateResponse{*updated})
			return nil
		},
	}
	update.Flags().IntVar(&upd.BranchID, "branch", 0, "Branch id")
	update.Flags().StringVar(&window, "window", "", "DAY@HH:mm-HH:mm/MINUTES")
	update.Flags().StringVar(&upd.Notes, "notes", "", "Notes")
	update.Flags().BoolVar(&active, "active", true, "Whether the window is bookable")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a schedule template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIntArg("id", args[0])
			if err != nil {
				return err
			}
			if err := a.client.DeleteSchedule(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted schedule template %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}

// parseWindow reads DAY@START-END/MINUTES, e.g. 1@08:00-12:00/30.
func parseWindow(s string) (dto.ScheduleTemplateRequest, error) {
	invalid := apperror.ValidationFields("Validation failed", map[string]string{
		"window": fmt.Sprintf("window %q must look like 1@08:00-12:00/30", s),
	})

	day, rest, ok := strings.Cut(s, "@")
	if !ok {
		return dto.ScheduleTemplateRequest{}, invalid
	}
	span, minutes, ok := strings.Cut(rest, "/")
	if !ok {
		return dto.ScheduleTemplateRequest{}, invalid
	}
	start, end, ok := strings.Cut(span, "-")
	if !ok {
		return dto.ScheduleTemplateRequest{}, invalid
	}
	dayOfWeek, err := strconv.Atoi(day)
	if err != nil {
		return dto.ScheduleTemplateRequest{}, invalid
	}
	slot, err := strconv.Atoi(minutes)
	if err != nil {
		return dto.ScheduleTemplateRequest{}, invalid
	}

	return dto.ScheduleTemplateRequest{
		DayOfWeek:   dayOfWeek,
		StartTime:   start,
		EndTime:     end,
		SlotMinutes: slot,
	}, nil
}

func parseID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, apperror.ValidationFields("Validation failed", map[string]string{
			field: field + " must be a valid UUID",
		})
	}
	return id, nil
}

func parseIntArg(field, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, apperror.ValidationFields("Validation failed", map[string]string{
			field: field + " must be a positive number",
		})
	}
	return n, nil
}
