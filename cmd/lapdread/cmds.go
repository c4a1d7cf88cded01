package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-lapd/internal/config"
	"github.com/robert-malhotra/go-lapd/internal/logging"
	"github.com/robert-malhotra/go-lapd/lapd"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info file",
		Short: "Show the devices and configurations of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  showInfo}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "items file [prefix]",
		Short: "List the groups and datasets of a file",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  listItems}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "read-data file board channel",
		Short: "Read a digitizer channel, optionally aligned with control devices",
		Args:  cobra.ExactArgs(3),
		RunE:  readData}
	addReadFlags(cmd)
	cmd.Flags().StringArray("control", nil, "control device to add, as name[:config] (repeatable)")
	cmd.Flags().String("digitizer", "", "digitizer name (default: the only digitizer)")
	cmd.Flags().String("adc", "", "analog-digital converter name")
	cmd.Flags().String("config-name", "", "digitizer configuration (default: the only active one)")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "read-controls file control+",
		Short: "Read and align control devices given as name[:config]",
		Args:  cobra.MinimumNArgs(2),
		RunE:  readControls}
	addReadFlags(cmd)
	root.AddCommand(cmd)
}

func addReadFlags(cmd *cobra.Command) {
	cmd.Flags().String("index", "", "row indices: 5, 1,3,9, 10:40:3 or :")
	cmd.Flags().String("shots", "", "shot numbers: 5, 1,3,9, 10:40:3 or :")
	cmd.Flags().Bool("union", false, "keep shots any stream stored instead of shots every stream stored")
}

// Action carries the state of one command invocation.
type Action struct {
	cmd   *cobra.Command
	cfg   *config.Config
	log   zerolog.Logger
	quiet bool
	start time.Time
}

func newAction(cmd *cobra.Command) (*Action, error) {
	a := &Action{cmd: cmd, start: time.Now()}
	a.quiet = a.getBool("quiet")

	cfg, err := config.Load(a.getString("config"))
	if err != nil {
		return nil, err
	}
	if level := a.getString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format := a.getString("format"); format != "" {
		cfg.Output.Format = format
	}
	a.cfg = cfg

	a.log, err = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringArray(name string) []string {
	result, _ := a.cmd.Flags().GetStringArray(name)
	return result
}

// Start shows the action banner.
func (a *Action) Start(format string, args ...interface{}) {
	if a.quiet {
		return
	}
	fmt.Fprintf(a.cmd.ErrOrStderr(), format+" .. ", args...)
}

// Done completes the banner and shows the result.
func (a *Action) Done(result interface{}) error {
	if !a.quiet {
		fmt.Fprintf(a.cmd.ErrOrStderr(), "Ok (%.1fs)\n", time.Since(a.start).Seconds())
	}
	return a.show(result)
}

func (a *Action) open(path string) (*lapd.File, error) {
	return lapd.Open(path,
		lapd.WithLogger(a.log),
		lapd.WithWorkers(a.cfg.Read.Workers))
}

// readOptions turns the shared read flags into read options.
func (a *Action) readOptions() ([]lapd.ReadOption, error) {
	opts := []lapd.ReadOption{
		lapd.WithIntersection(a.cfg.Read.Intersection && !a.getBool("union")),
	}
	if s := a.getString("index"); s != "" {
		req, err := lapd.ParseRequest(s)
		if err != nil {
			return nil, errors.WithMessage(err, "--index")
		}
		opts = append(opts, lapd.WithIndex(req))
	}
	if s := a.getString("shots"); s != "" {
		req, err := lapd.ParseRequest(s)
		if err != nil {
			return nil, errors.WithMessage(err, "--shots")
		}
		opts = append(opts, lapd.WithShots(req))
	}
	return opts, nil
}

func parseControls(specs []string) ([]lapd.Control, error) {
	out := make([]lapd.Control, 0, len(specs))
	for _, s := range specs {
		c, err := lapd.ParseControl(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func showInfo(cmd *cobra.Command, args []string) error {
	action, err := newAction(cmd)
	if err != nil {
		return err
	}
	action.Start("Mapping %s", args[0])
	f, err := action.open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	return action.Done(describe(f))
}

func listItems(cmd *cobra.Command, args []string) error {
	action, err := newAction(cmd)
	if err != nil {
		return err
	}
	f, err := action.open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	prefix := ""
	if len(args) == 2 {
		prefix = args[1]
	}
	var items []lapd.Item
	err = lapd.Walk(f, prefix, func(it lapd.Item) error {
		items = append(items, it)
		return nil
	})
	if err != nil {
		return err
	}
	return action.show(items)
}

func readData(cmd *cobra.Command, args []string) error {
	action, err := newAction(cmd)
	if err != nil {
		return err
	}
	board, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrapf(err, "board %q", args[1])
	}
	channel, err := strconv.Atoi(args[2])
	if err != nil {
		return errors.Wrapf(err, "channel %q", args[2])
	}

	opts, err := action.readOptions()
	if err != nil {
		return err
	}
	controls, err := parseControls(action.getStringArray("control"))
	if err != nil {
		return err
	}
	opts = append(opts,
		lapd.WithControls(controls...),
		lapd.WithDigitizer(action.getString("digitizer")),
		lapd.WithADC(action.getString("adc")),
		lapd.WithConfig(action.getString("config-name")))

	f, err := action.open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	action.Start("Reading board %d channel %d of %s", board, channel, args[0])
	data, err := f.ReadData(cmd.Context(), board, channel, opts...)
	if err != nil {
		return err
	}
	return action.Done(data)
}

func readControls(cmd *cobra.Command, args []string) error {
	action, err := newAction(cmd)
	if err != nil {
		return err
	}
	opts, err := action.readOptions()
	if err != nil {
		return err
	}
	controls, err := parseControls(args[1:])
	if err != nil {
		return err
	}

	f, err := action.open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	action.Start("Reading %d controls of %s", len(controls), args[0])
	data, err := f.ReadControls(cmd.Context(), controls, opts...)
	if err != nil {
		return err
	}
	return action.Done(data)
}
