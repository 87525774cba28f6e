package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"clinic-scheduler/config"
	"clinic-scheduler/internal/booking"
	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/directory"
	"clinic-scheduler/internal/schedapi"
	"clinic-scheduler/internal/session"
	"clinic-scheduler/pkg/apperror"
	"clinic-scheduler/pkg/validator"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds what every command needs. It is built once per invocation in
// the root command's PersistentPreRunE.
type app struct {
	out       io.Writer
	log       *logrus.Logger
	loc       *time.Location
	client    *schedapi.Client
	source    directory.Source
	orch      *booking.Orchestrator
	validator *validator.CustomValidator
	closers   []func() error
}

type rootFlags struct {
	apiURL       string
	token        string
	timeout      time.Duration
	timezone     string
	directoryDSN string
	verbose      bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "citas",
		Short:         "Clinic appointment scheduling client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, flags)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api", "", "Scheduling API base URL (default $CITAS_API_URL)")
	pf.StringVar(&flags.token, "token", "", "Access token (default $CITAS_TOKEN)")
	pf.DurationVar(&flags.timeout, "timeout", 0, "HTTP timeout (default $CITAS_TIMEOUT or 30s)")
	pf.StringVar(&flags.timezone, "tz", "", "Clinic timezone (default $CITAS_TIMEZONE or local)")
	pf.StringVar(&flags.directoryDSN, "directory-dsn", "", "Directory Database DSN used when the API is unreachable")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log requests")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.refreshCmd(),
		a.meCmd(),
		a.menuCmd(),
		a.specialtiesCmd(),
		a.branchesCmd(),
		a.appointmentTypesCmd(),
		a.physiciansCmd(),
		a.patientsCmd(),
		a.schedulesCmd(),
		a.slotsCmd(),
		a.bookCmd(),
		a.cancelCmd(),
		a.appointmentsCmd(),
		a.auditLogsCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	override(&cfg.APIURL, flags.apiURL)
	override(&cfg.Token, flags.token)
	override(&cfg.Timezone, flags.timezone)
	override(&cfg.DirectoryDSN, flags.directoryDSN)
	if flags.timeout > 0 {
		cfg.Timeout = flags.timeout
	}

	a.log = logrus.New()
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	a.log.SetLevel(logrus.WarnLevel)
	if flags.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}

	a.loc, err = config.Location(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	a.client = schedapi.New(cfg.APIURL,
		schedapi.WithTimeout(cfg.Timeout),
		schedapi.WithToken(cfg.Token),
		schedapi.WithLogger(a.log),
	)

	a.source = directory.NewAPISource(a.client, a.loc)
	if cfg.DirectoryDSN != "" {
		db, err := directory.OpenDBSource(cfg.DirectoryDSN, a.log, a.loc)
		if err != nil {
			a.log.Warnf("Directory database disabled: %v", err)
		} else {
			a.closers = append(a.closers, db.Close)
			a.source = directory.NewFallbackSource(a.source, db, a.log)
		}
	}

	a.validator = validator.NewValidator()
	a.orch = booking.NewOrchestrator(a.client, a.source, a.validator, a.log, booking.WithLocation(a.loc))
	return nil
}

func (a *app) close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// session resolves the current token into a session through GET /auth/me.
func (a *app) session(ctx context.Context) (*session.Session, error) {
	if a.client.Token() == "" {
		return nil, apperror.Unauthorized("not logged in: run `citas login` and export CITAS_TOKEN")
	}
	me, err := a.client.Me(ctx)
	if err != nil {
		return nil, err
	}
	sess, ok := converter.SessionFromResponse(me)
	if !ok {
		return nil, apperror.Unauthorized("server returned an unknown role " + me.Role)
	}
	return sess, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// describe renders err for the terminal, listing field errors on their own
// lines.
func describe(err error) string {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}

	var b strings.Builder
	b.WriteString(appErr.Message)
	switch {
	case apperror.IsTimeout(err):
		b.WriteString(" (timed out, try again)")
	case apperror.IsTransport(err):
		b.WriteString(" (network problem, try again)")
	case apperror.IsConflict(err):
		b.WriteString(" (data changed, check again before retrying)")
	}

	keys := make([]string, 0, len(appErr.Fields))
	for k := range appErr.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  %s: %s", k, appErr.Fields[k])
	}
	return b.String()
}
