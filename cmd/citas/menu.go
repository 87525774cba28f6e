package main

import (
	"fmt"
	"io"

	"clinic-scheduler/internal/session"
)

type menuEntry struct {
	capability session.Capability
	label      string
	command    string
}

// menu is ordered the way the entries are shown.
var menu = []menuEntry{
	{session.CapViewPhysicians, "Browse physicians", "citas physicians list"},
	{session.CapRegisterPhysicians, "Register a physician", "citas physicians register"},
	{session.CapSearchPatients, "Find a patient", "citas patients find <national-id>"},
	{session.CapRegisterPatients, "Register a patient", "citas patients register"},
	{session.CapViewSchedules, "Weekly schedules", "citas schedules list"},
	{session.CapManageSchedules, "Assign schedules", "citas schedules add"},
	{session.CapViewSchedules, "Free slots", "citas slots"},
	{session.CapCreateAppointments, "Book an appointment", "citas book"},
	{session.CapViewAllAppointments, "All appointments", "citas appointments list"},
	{session.CapViewOwnAppointments, "My appointments", "citas appointments list"},
	{session.CapCancelAppointments, "Cancel an appointment", "citas cancel <id>"},
	{session.CapConfirmAppointments, "Confirm an appointment", "citas appointments confirm <id>"},
	{session.CapCompleteAppointments, "Complete an appointment", "citas appointments complete <id>"},
	{session.CapViewAuditLogs, "Audit trail", "citas audit-logs"},
}

// menuFor lists the entries sess may use. A role holding both appointment
// views only gets the full one.
func menuFor(sess *session.Session) []menuEntry {
	var out []menuEntry
	for _, e := range menu {
		if !sess.Can(e.capability) {
			continue
		}
		if e.capability == session.CapViewOwnAppointments && sess.Can(session.CapViewAllAppointments) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func renderMenu(w io.Writer, sess *session.Session) {
	fmt.Fprintf(w, "Menu for %s\n", sess.Role)
	tw := newTable(w)
	for i, e := range menuFor(sess) {
		fmt.Fprintf(tw, "%2d.\t%s\t%s\n", i+1, e.label, e.command)
	}
	tw.Flush()
}
