package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"clinic-scheduler/internal/availability"
	"clinic-scheduler/internal/delivery/dto"
)

var weekdays = [...]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func weekday(day int) string {
	if day < 1 || day > 7 {
		return fmt.Sprint(day)
	}
	return weekdays[day]
}

func printTemplates(w io.Writer, templates []dto.ScheduleTemplateResponse) {
	if len(templates) == 0 {
		fmt.Fprintln(w, "No schedule templates.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPHYSICIAN\tBRANCH\tDAY\tFROM\tTO\tSLOT\tACTIVE")
	for _, t := range templates {
		physician := t.PhysicianName
		if physician == "" {
			physician = t.PhysicianID.String()
		}
		branch := t.BranchName
		if branch == "" {
			branch = fmt.Sprint(t.BranchID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%dm\t%t\n",
			t.ID, physician, branch, weekday(t.DayOfWeek), t.StartTime, t.EndTime, t.SlotMinutes, t.Active)
	}
	tw.Flush()
}

func printSlots(w io.Writer, result availability.Result, all bool) {
	if result.NoSchedule {
		fmt.Fprintln(w, "The physician does not attend this branch on that day.")
		return
	}
	if result.Overlapping {
		fmt.Fprintln(w, "Warning: schedule templates overlap on this day.")
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "FROM\tTO\tSTATUS")
	shown := 0
	for _, s := range result.Slots {
		if !s.Available && !all {
			continue
		}
		status := "free"
		if !s.Available {
			status = string(s.Reason)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Start, s.End, status)
		shown++
	}
	tw.Flush()
	if shown == 0 {
		fmt.Fprintln(w, "No free slots.")
	}
}

func printPatient(w io.Writer, p *dto.PatientResponse) {
	tw := newTable(w)
	rows := [][2]string{
		{"id", p.UserID.String()},
		{"name", p.FullName},
		{"email", p.Email},
		{"national id", p.NationalID},
		{"phone", p.Phone},
		{"birth date", p.DateOfBirth},
		{"blood type", p.BloodType},
		{"allergies", p.Allergies},
		{"insurance", p.InsuranceNumber},
		{"emergency", p.EmergencyContact + " " + p.EmergencyPhone},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	tw.Flush()
}

func printAppointment(w io.Writer, a *dto.AppointmentResponse) {
	tw := newTable(w)
	fmt.Fprintf(tw, "id:\t%s\n", a.ID)
	fmt.Fprintf(tw, "when:\t%s %s (%d min)\n", a.Date, a.Time, a.DurationMinutes)
	fmt.Fprintf(tw, "status:\t%s\n", a.Status)
	fmt.Fprintf(tw, "patient:\t%s\n", orID(a.PatientName, a.PatientID.String()))
	fmt.Fprintf(tw, "physician:\t%s\n", orID(a.PhysicianName, a.PhysicianID.String()))
	fmt.Fprintf(tw, "branch:\t%s\n", orID(a.BranchName, fmt.Sprint(a.BranchID)))
	fmt.Fprintf(tw, "mode:\t%s\n", a.Mode)
	if a.MeetingLink != "" {
		fmt.Fprintf(tw, "link:\t%s\n", a.MeetingLink)
	}
	if a.AppointmentTypeName != "" {
		fmt.Fprintf(tw, "type:\t%s\n", a.AppointmentTypeName)
	}
	if a.Fee != nil {
		fmt.Fprintf(tw, "fee:\t%s\n", a.Fee.StringFixed(2))
	}
	fmt.Fprintf(tw, "reason:\t%s\n", a.Reason)
	if a.CancellationReason != "" {
		fmt.Fprintf(tw, "cancelled:\t%s\n", a.CancellationReason)
	}
	tw.Flush()
}

func printAppointments(w io.Writer, appointments []dto.AppointmentResponse) {
	if len(appointments) == 0 {
		fmt.Fprintln(w, "No appointments.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tPATIENT\tPHYSICIAN\tBRANCH\tSTATUS")
	for _, a := range appointments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Date, a.Time,
			orID(a.PatientName, a.PatientID.String()),
			orID(a.PhysicianName, a.PhysicianID.String()),
			orID(a.BranchName, fmt.Sprint(a.BranchID)),
			a.Status)
	}
	tw.Flush()
}

func orID(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
