package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/malvik/dagbok/pkg/config"
	"github.com/malvik/dagbok/pkg/ics"
	"github.com/malvik/dagbok/pkg/models"
	"github.com/malvik/dagbok/pkg/store"
)

func printHelp() {
	fmt.Fprintf(os.Stderr, `dagbok - desktop calendar database tool

USAGE:
    %s [OPTIONS] COMMAND [ARGS]

OPTIONS:
    -config FILE    Path to JSON config file (optional)
    -db FILE        Path to the calendar database file
                    (overrides config file and DAGBOK_DATABASE_PATH)

COMMANDS:
    list                    List all calendars and their appointment counts
    add NAME [#rrggbb]      Add a calendar, optionally with a display color
    remove NAME...          Remove the named calendars
    export [FILE]           Export all calendars as iCalendar (default: stdout)
    import FILE             Import calendars from an iCalendar file

The database file is created on the first save. A missing file at startup is
not an error; the tool starts with an empty calendar set.
`, os.Args[0])
}

type app struct {
	store      *store.Store
	saveFailed bool
}

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	dbPath := flag.String("db", "", "path to the calendar database file")
	flag.Usage = printHelp
	flag.Parse()

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading configuration failed", "error", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}

	a := &app{store: store.New(cfg.DatabasePath)}
	a.store.OnSaveError(func(err error) {
		slog.Error("saving the calendar database failed", "error", err)
		a.saveFailed = true
	})
	// Autosave: every mutation writes the whole database back out.
	a.store.OnChange(a.store.Save)

	if err := a.load(); err != nil {
		slog.Error("loading the calendar database failed", "error", err)
		os.Exit(1)
	}

	if err := a.run(flag.Arg(0), flag.Args()[1:]); err != nil {
		slog.Error("command failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
	if a.saveFailed {
		os.Exit(1)
	}
}

func (a *app) load() error {
	err := a.store.Load()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		slog.Info("no calendar database yet, starting empty", "path", a.store.Path())
		return nil
	default:
		// Corruption included: a partially loaded store must not be used.
		return err
	}
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "list":
		return a.list()
	case "add":
		return a.add(args)
	case "remove":
		return a.remove(args)
	case "export":
		return a.export(args)
	case "import":
		return a.importFile(args)
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) list() error {
	for _, cal := range a.store.Calendars() {
		state := "enabled"
		if !cal.Enabled {
			state = "disabled"
		}
		fmt.Printf("%s\t%s\t%s\t%d standard, %d whole-day\n",
			cal.Name(), cal.Color.Hex(), state,
			cal.NumberOfStandardAppointments(), cal.NumberOfWholeDayAppointments())
	}
	return nil
}

func (a *app) add(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: add NAME [#rrggbb]")
	}

	color := models.RGB(0x4c, 0x6e, 0xf5)
	if len(args) == 2 {
		parsed, err := models.ParseColor(args[1])
		if err != nil {
			return err
		}
		color = parsed
	}

	cal, err := models.NewCalendar(args[0], color)
	if err != nil {
		return err
	}
	return a.store.Add(cal)
}

func (a *app) remove(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: remove NAME...")
	}

	calendars := make([]*models.Calendar, 0, len(args))
	for _, name := range args {
		cal := a.store.Get(name)
		if cal == nil {
			return fmt.Errorf("no calendar named %q", name)
		}
		calendars = append(calendars, cal)
	}
	a.store.Remove(calendars...)
	return nil
}

func (a *app) export(args []string) error {
	if len(args) > 1 {
		return errors.New("usage: export [FILE]")
	}

	out := os.Stdout
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return ics.EncodeAll(out, a.store.Calendars())
}

func (a *app) importFile(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: import FILE")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	calendars, err := ics.Decode(f)
	if err != nil {
		return err
	}
	for _, cal := range calendars {
		if err := a.store.Add(cal); err != nil {
			return err
		}
	}
	slog.Info("calendars imported", "count", len(calendars))
	return nil
}
