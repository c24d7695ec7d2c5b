package cli

import (
	"fmt"
	"os"
	"time"

	"prospect/internal/config"
	"prospect/internal/crm"
	"prospect/internal/importer"
	"prospect/internal/logger"
	"prospect/internal/model"
	"prospect/internal/store"
	"prospect/internal/tui"
)

// Options tune behavior from root flags.
type Options struct {
	ConfigPath string
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		fail("config: " + err.Error())
		return 1
	}
	st := store.New(cfg.ShortlistPath(), cfg.ArchivePath())

	cmd := "tui"
	var a []string
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "tui":
		return doTUI(cfg, st)

	case "ls":
		return doList(st)

	case "import":
		if len(a) == 0 {
			fail("usage: prospect import <connections.csv> [name ...]")
			return 2
		}
		return doImport(st, a[0], a[1:])
	}

	fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`prospect - a shortlist CRM for your connections

Usage:
  prospect [flags] <subcommand> [args]

Subcommands:
  tui                          Open the interactive shortlist view (default)
  ls                           Print the shortlist with follow-up urgency
  import <csv> [name ...]      Shortlist contacts from a connections export;
                               without names, refresh existing entries

Flags:
  --config <path>              Config file (or PROSPECT_CONFIG_PATH)

Examples:
  prospect import connections.csv "Ada Lovelace"
  prospect ls
  prospect
`)
}

// -------------- subcommand impls ----------------

func doTUI(cfg config.Config, st *store.Store) int {
	log, err := logger.New(cfg.Log.Level, cfg.LogPath())
	if err != nil {
		fail("logger: " + err.Error())
		return 1
	}
	defer func() { _ = log.Sync() }()

	if err := tui.Run(cfg, st, log); err != nil {
		fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func doList(st *store.Store) int {
	entries := st.LoadShortlist()
	if len(entries) == 0 {
		fmt.Println(muted("no contacts shortlisted"))
		return 0
	}

	counts := model.CountByStatus(entries)
	header := fmt.Sprintf("%s  %s", bold("Shortlist"), accent(fmt.Sprintf("Total %d", len(entries))))
	for _, s := range model.AllStatuses {
		if n := counts[s]; n > 0 {
			header += muted(fmt.Sprintf("  %s %d", s.Label(), n))
		}
	}
	fmt.Println(header)

	for _, r := range crm.Project(entries, time.Now()) {
		line := fmt.Sprintf("  %-28s %-24s %s", truncate(r.Name, 28), truncate(r.Company, 24), r.StatusLabel)
		switch crm.UrgencyBand(r.UrgencyKey) {
		case crm.BandOverdue:
			line = errorText(line)
		case crm.BandNear, crm.BandSoon:
			line = warn(line)
		}
		fmt.Println(line)
	}
	return 0
}

func doImport(st *store.Store, csvPath string, names []string) int {
	conns, err := importer.ParseConnectionsFile(csvPath)
	if err != nil {
		fail("import: " + err.Error())
		return 1
	}
	res, err := importer.Sync(st, conns, names)
	if err != nil {
		fail("import: " + err.Error())
		return 1
	}
	ok(fmt.Sprintf("imported: %d added, %d refreshed", res.Added, res.Refreshed))
	for _, name := range res.Missing {
		fail("not in export: " + name)
	}
	if len(res.Missing) > 0 {
		return 1
	}
	return 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
