package main

import (
	"fmt"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/session"

	"github.com/spf13/cobra"
)

func (a *app) slotsCmd() *cobra.Command {
	var physician, date string
	var branchID int
	var all bool
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Show a physician's slots for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			physicianID, err := parseID("physician", physician)
			if err != nil {
				return err
			}
			day, err := availability.ParseDate(date, a.loc)
			if err != nil {
				return err
			}

			result, err := a.orch.Slots(cmd.Context(), physicianID, branchID, day)
			if err != nil {
				return err
			}
			printSlots(a.out, result, all)
			return nil
		},
	}
	cmd.Flags().StringVar(&physician, "physician", "", "Physician id")
	cmd.Flags().IntVar(&branchID, "branch", 0, "Branch id")
	cmd.Flags().StringVar(&date, "date", "", "Date (yyyy-MM-dd)")
	cmd.Flags().BoolVar(&all, "all", false, "Include unavailable slots")
	return cmd
}

func (a *app) bookCmd() *cobra.Command {
	var req dto.CreateAppointmentRequest
	var patient, physician string
	var appointmentType int
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment in a free slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}

			// Patients book for themselves.
			if patient == "" && sess.Role == session.RolePatient {
				req.PatientID = sess.UserID
			} else if patient != "" {
				if req.PatientID, err = parseID("patient", patient); err != nil {
					return err
				}
			}
			if physician != "" {
				if req.PhysicianID, err = parseID("physician", physician); err != nil {
					return err
				}
			}
			if appointmentType > 0 {
				req.AppointmentTypeID = &appointmentType
			}

			appointment, err := a.orch.Book(cmd.Context(), sess, &req)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Appointment booked")
			printAppointment(a.out, appointment)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&patient, "patient", "", "Patient id (patients may omit it)")
	f.StringVar(&physician, "physician", "", "Physician id")
	f.IntVar(&req.BranchID, "branch", 0, "Branch id")
	f.IntVar(&appointmentType, "type", 0, "Appointment type id")
	f.StringVar(&req.Date, "date", "", "Date (yyyy-MM-dd)")
	f.StringVar(&req.Time, "time", "", "Slot start (HH:mm)")
	f.StringVar(&req.Reason, "reason", "", "Reason for the visit")
	f.StringVar(&req.Mode, "mode", "in_person", "in_person or virtual")
	f.StringVar(&req.MeetingLink, "link", "", "Meeting link for virtual visits")
	f.StringVar(&req.Notes, "notes", "", "Notes")
	return cmd
}

func (a *app) cancelCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			appointment, err := a.orch.Cancel(cmd.Context(), sess, id, reason)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Appointment cancelled")
			printAppointment(a.out, appointment)
			return nil
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why the appointment is cancelled")
	return cmd
}

func (a *app) appointmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appts"},
		Short:   "List and manage appointments",
	}

	var filter dto.AppointmentListRequest
	list := &cobra.Command{
		Use:   "list",
		Short: "List appointments you can see",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.validator.Check(&filter); err != nil {
				return err
			}
			resp, err := a.client.Appointments(cmd.Context(), &filter)
			if err != nil {
				return err
			}
			printAppointments(a.out, resp.Appointments)
			return nil
		},
	}
	lf := list.Flags()
	lf.StringVar(&filter.PatientID, "patient", "", "Patient id")
	lf.StringVar(&filter.PhysicianID, "physician", "", "Physician id")
	lf.IntVar(&filter.BranchID, "branch", 0, "Branch id")
	lf.StringVar(&filter.Date, "date", "", "Date (yyyy-MM-dd)")
	lf.StringVar(&filter.Status, "status", "", "scheduled, confirmed, completed or cancelled")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			appointment, err := a.client.Appointment(cmd.Context(), id)
			if err != nil {
				return err
			}
			printAppointment(a.out, appointment)
			return nil
		},
	}

	confirm := &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm a scheduled appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			appointment, err := a.client.ConfirmAppointment(cmd.Context(), id)
			if err != nil {
				return err
			}
			printAppointment(a.out, appointment)
			return nil
		},
	}

	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark an appointment as attended",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			appointment, err := a.client.CompleteAppointment(cmd.Context(), id)
			if err != nil {
				return err
			}
			printAppointment(a.out, appointment)
			return nil
		},
	}

	cmd.AddCommand(list, show, confirm, complete)
	return cmd
}

func (a *app) auditLogsCmd() *cobra.Command {
	var filter dto.AuditLogListRequest
	cmd := &cobra.Command{
		Use:   "audit-logs",
		Short: "Show the audit trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.validator.Check(&filter); err != nil {
				return err
			}
			resp, err := a.client.AuditLogs(cmd.Context(), &filter)
			if err != nil {
				return err
			}
			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tWHEN\tUSER\tROLE\tACTION")
			for _, l := range resp.Logs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.CreatedAt.In(a.loc).Format("2006-01-02 15:04"), l.UserName, l.UserRole, l.Action)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.UserID, "user", "", "User id")
	cmd.Flags().StringVar(&filter.Action, "action", "", "Action, e.g. appointment.create")
	cmd.Flags().IntVar(&filter.Limit, "limit", 50, "Maximum entries")
	return cmd
}
