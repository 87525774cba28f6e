package main

import (
	"fmt"
	"strings"

	"clinic-scheduler/internal/delivery/dto"

	"github.com/spf13/cobra"
)

func (a *app) specialtiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "specialties",
		Short: "List medical specialties",
		RunE: func(cmd *cobra.Command, args []string) error {
			specialties, err := a.source.Specialties(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
			for _, s := range specialties {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", s.ID, s.Name, s.Description)
			}
			return tw.Flush()
		},
	}
}

func (a *app) branchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branches",
		Short: "List clinic branches",
		RunE: func(cmd *cobra.Command, args []string) error {
			branches, err := a.source.Branches(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tPHONE\tHOURS")
			for _, b := range branches {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Address, b.Phone, b.OpeningHours)
			}
			return tw.Flush()
		},
	}
}

func (a *app) appointmentTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "appointment-types",
		Short: "List appointment types and fees",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := a.client.AppointmentTypes(cmd.Context())
			if err != nil {
				return err
			}
			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tNAME\tFEE")
			for _, t := range types {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, t.Name, t.Fee.StringFixed(2))
			}
			return tw.Flush()
		},
	}
}

func (a *app) physiciansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "physicians",
		Short: "Browse and register physicians",
	}

	var filter dto.PhysicianListRequest
	list := &cobra.Command{
		Use:   "list",
		Short: "List active physicians",
		RunE: func(cmd *cobra.Command, args []string) error {
			physicians, err := a.source.Physicians(cmd.Context(), &filter)
			if err != nil {
				return err
			}
			tw := newTable(a.out)
			fmt.Fprintln(tw, "ID\tNAME\tSPECIALTY\tLICENSE\tWEEKLY WINDOWS")
			for _, p := range physicians {
				specialty := ""
				if p.Specialty != nil {
					specialty = p.Specialty.Name
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", p.UserID, p.FullName, specialty, p.LicenseNumber, len(p.Templates))
			}
			return tw.Flush()
		},
	}
	list.Flags().IntVar(&filter.SpecialtyID, "specialty", 0, "Specialty id")
	list.Flags().StringVar(&filter.Name, "name", "", "Name contains")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a physician with their weekly schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			p, err := a.client.Physician(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s (%s)\nlicense: %s\nemail:   %s\nphone:   %s\n", p.FullName, p.UserID, p.LicenseNumber, p.Email, p.Phone)
			if p.Specialty != nil {
				fmt.Fprintf(a.out, "specialty: %s\n", p.Specialty.Name)
			}
			printTemplates(a.out, p.Templates)
			return nil
		},
	}

	var reg dto.RegisterPhysicianRequest
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a physician account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.validator.Check(&reg); err != nil {
				return err
			}
			p, err := a.client.RegisterPhysician(cmd.Context(), &reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered physician %s (%s)\n", p.FullName, p.UserID)
			return nil
		},
	}
	f := register.Flags()
	f.StringVar(&reg.Email, "email", "", "Login email")
	f.StringVar(&reg.Password, "password", "", "Initial password")
	f.StringVar(&reg.FullName, "name", "", "Full name")
	f.StringVar(&reg.NationalID, "national-id", "", "National id")
	f.StringVar(&reg.LicenseNumber, "license", "", "License number")
	f.IntVar(&reg.SpecialtyID, "specialty", 0, "Specialty id")
	f.StringVar(&reg.Phone, "phone", "", "Phone")
	f.StringVar(&reg.Biography, "bio", "", "Short biography")

	cmd.AddCommand(list, show, register)
	return cmd
}

func (a *app) patientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patients",
		Short: "Find and register patients",
	}

	find := &cobra.Command{
		Use:   "find <national-id>",
		Short: "Look a patient up by national id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.client.PatientByNationalID(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			printPatient(a.out, p)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a patient by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("id", args[0])
			if err != nil {
				return err
			}
			p, err := a.client.Patient(cmd.Context(), id)
			if err != nil {
				return err
			}
			printPatient(a.out, p)
			return nil
		},
	}

	var reg dto.RegisterPatientRequest
	var self bool
	register := &cobra.Command{
		Use:   "register",
		Short: "Register a patient (use --self to sign up without a session)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.validator.Check(&reg); err != nil {
				return err
			}
			var p *dto.PatientResponse
			var err error
			if self {
				p, err = a.client.RegisterSelf(cmd.Context(), &reg)
			} else {
				p, err = a.client.RegisterPatient(cmd.Context(), &reg)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Registered patient %s (%s)\n", p.FullName, p.UserID)
			return nil
		},
	}
	f := register.Flags()
	f.BoolVar(&self, "self", false, "Create your own patient account")
	f.StringVar(&reg.Email, "email", "", "Login email")
	f.StringVar(&reg.Password, "password", "", "Initial password")
	f.StringVar(&reg.FullName, "name", "", "Full name")
	f.StringVar(&reg.NationalID, "national-id", "", "National id")
	f.StringVar(&reg.Phone, "phone", "", "Phone")
	f.StringVar(&reg.DateOfBirth, "birth-date", "", "Date of birth (yyyy-MM-dd)")
	f.StringVar(&reg.Gender, "gender", "", "M or F")
	f.StringVar(&reg.Address, "address", "", "Address")
	f.StringVar(&reg.BloodType, "blood-type", "", "Blood type, e.g. O+")
	f.StringVar(&reg.Allergies, "allergies", "", "Known allergies")
	f.StringVar(&reg.MedicalHistory, "history", "", "Medical history")
	f.StringVar(&reg.EmergencyContact, "emergency-contact", "", "Emergency contact name")
	f.StringVar(&reg.EmergencyPhone, "emergency-phone", "", "Emergency contact phone")
	f.StringVar(&reg.InsuranceNumber, "insurance", "", "Insurance number")

	cmd.AddCommand(find, show, register)
	return cmd
}
