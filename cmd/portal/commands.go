package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/inflight"
	"github.com/no-solace/ev-maintenance-system/internal/session"
	"github.com/no-solace/ev-maintenance-system/internal/validator"
)

var errUsage = errors.New("usage")

type command struct {
	usage  string
	// action is the permission needed, empty for anonymous commands.
	action string
	run    func(ctx context.Context, a *App, fs *flag.FlagSet, args []string) error
}

func commands() map[string]command {
	return map[string]command{
		"login":    {usage: "login -email E -password P", run: cmdLogin},
		"register": {usage: "register -name N -email E -phone P -password P", run: cmdRegister},
		"logout":   {usage: "logout", run: cmdLogout},
		"whoami":   {usage: "whoami", run: cmdWhoami},

		"centers":     {usage: "centers", run: cmdCenters},
		"slots":       {usage: "slots -center ID -date YYYY-MM-DD", run: cmdSlots},
		"packages":    {usage: "packages", run: cmdPackages},
		"parts":       {usage: "parts [-in-stock]", run: cmdParts},
		"vehicles":    {usage: "vehicles", action: "register_vehicle", run: cmdVehicles},
		"add-vehicle": {usage: "add-vehicle -model M -plate P -vin V [-year Y] [-mileage KM]", action: "register_vehicle", run: cmdAddVehicle},

		"book":     {usage: "book -center ID -date D -slot HH:MM -vehicle ID -offer maintenance|replacement|repair [-package ID] [-parts 1,2] [-name N] [-phone P] [-email E] [-notes T] [-pay]", action: "create_booking", run: cmdBook},
		"bookings": {usage: "bookings [-status S] [-q TEXT] [-from D] [-to D] [-sort date|status|id] [-desc] [-stats]", action: "view_bookings", run: cmdBookings},
		"cancel":   {usage: "cancel -id ID [-reason R] [-approve|-reject]", action: "view_bookings", run: cmdCancel},
		"pay":      {usage: "pay -id ID [-wait]", action: "pay_deposit", run: cmdPay},

		"technicians": {usage: "technicians", action: "view_receptions", run: cmdTechnicians},
		"receptions":  {usage: "receptions [-status S] [-q TEXT] [-mine] [-stats]", action: "view_receptions", run: cmdReceptions},
		"queue":       {usage: "queue [-publish]", action: "view_receptions", run: cmdQueue},
		"lookup":      {usage: "lookup [-plate P] [-vin V]", action: "view_receptions", run: cmdLookup},
		"receive":     {usage: "receive [-booking ID] [-plate P] [-vin V] [-model M] [-name N] [-phone P] [-mileage KM] [-offer O ...] [-package ID] [-parts 1,2] [-issue T] [-draft|-resume]", action: "create_reception", run: cmdReceive},
		"advance":     {usage: "advance -id ID [-technician ID]", action: "update_reception", run: cmdAdvance},
		"add-parts":   {usage: "add-parts -id ID -parts 1,2", action: "add_parts", run: cmdAddParts},
		"checklist":   {usage: "checklist -id ID [-set RECORD=OUTCOME[:PART] ...] [-save]", action: "view_receptions", run: cmdChecklist},
	}
}

func (a *App) dispatch(ctx context.Context, args []string) error {
	table := commands()
	name := args[0]
	if name == "help" {
		a.printHelp(table)
		return nil
	}
	cmd, ok := table[name]
	if !ok {
		a.printHelp(table)
		return fmt.Errorf("unknown command %q", name)
	}

	if cmd.action != "" {
		if _, err := a.session.Require(cmd.action); err != nil {
			return err
		}
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.Usage = func() { fmt.Fprintf(a.out, "Cách dùng: %s\n", cmd.usage) }

	log.WithField("command", name).Debug("Running command")
	err := cmd.run(ctx, a, fs, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if errors.Is(err, errUsage) {
		fs.Usage()
	}
	return err
}

func (a *App) printHelp(table map[string]command) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(a.out, "Các lệnh:")
	for _, name := range names {
		fmt.Fprintf(a.out, "  %s\n", table[name].usage)
	}
}

// reportError prints the user-facing message for err.
func (a *App) reportError(err error) {
	var fieldErrs validator.FieldErrors
	switch {
	case errors.Is(err, errUsage):
		if err != errUsage {
			fmt.Fprintf(a.out, "Lỗi: %s\n", err)
		}
	case errors.As(err, &fieldErrs):
		fmt.Fprintln(a.out, "Thông tin chưa hợp lệ:")
		keys := make([]string, 0, len(fieldErrs))
		for k := range fieldErrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(a.out, "  %s: %s\n", k, fieldErrs[k])
		}
	case errors.Is(err, session.ErrNotAuthenticated), apiclient.IsKind(err, apiclient.KindUnauthorized):
		fmt.Fprintln(a.out, "Vui lòng đăng nhập: portal login -email ... -password ...")
	case errors.Is(err, inflight.ErrBusy):
		fmt.Fprintln(a.out, "Thao tác đang được xử lý, vui lòng đợi.")
	default:
		fmt.Fprintf(a.out, "Lỗi: %s\n", apiclient.Message(err))
	}
}

// shell runs commands read line by line until EOF or "exit".
func (a *App) shell(ctx context.Context, in io.Reader) int {
	fmt.Fprintf(a.out, "EV portal (%s). Gõ \"help\" để xem lệnh, \"exit\" để thoát.\n", a.cfg.APIBaseURL)
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return 0
		}
		args, err := splitArgs(scanner.Text())
		if err != nil {
			fmt.Fprintf(a.out, "Lỗi: %s\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "exit" || args[0] == "quit" {
			return 0
		}
		if err := a.dispatch(ctx, args); err != nil {
			a.reportError(err)
		}
		if ctx.Err() != nil {
			return 1
		}
	}
}

// splitArgs splits a shell line on spaces, keeping double-quoted runs
// together.
func splitArgs(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inQuote, hasToken := false, false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			hasToken = true
		case (r == ' ' || r == '\t') && !inQuote:
			if hasToken {
				args = append(args, cur.String())
				cur.Reset()
				hasToken = false
			}
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if hasToken {
		args = append(args, cur.String())
	}
	return args, nil
}

// idList parses "1,2,3".
func idList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}
