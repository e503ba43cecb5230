package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/dmitrijs2005/campushire/internal/applications"
)

const progressWidth = 20

// parseAppsArgs splits the arguments of the apps command into a search
// query and a sort mode. The mode defaults to upcoming events first.
func parseAppsArgs(args []string) (string, applications.SortMode, error) {
	mode := applications.ByUpcoming
	var words []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-sort", "--sort":
			if i+1 >= len(args) {
				return "", "", fmt.Errorf("-sort needs a value: upcoming or company")
			}
			i++
			switch m := applications.SortMode(args[i]); m {
			case applications.ByUpcoming, applications.ByCompany:
				mode = m
			default:
				return "", "", fmt.Errorf("unknown sort %q: use upcoming or company", args[i])
			}
		default:
			words = append(words, args[i])
		}
	}
	return strings.Join(words, " "), mode, nil
}

// Apps prints the user's applications with their next event and how far
// along the wait for it is.
func (a *App) Apps(ctx context.Context, args []string) error {
	query, mode, err := parseAppsArgs(args)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	views, err := a.appService.List(ctx, query, mode)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load applications: %s\n", err)
		return err
	}
	if len(views) == 0 {
		if query != "" {
			fmt.Fprintf(a.out, "No applications match %q\n", query)
		} else {
			fmt.Fprintln(a.out, "No applications yet")
		}
		return nil
	}

	for _, v := range views {
		fmt.Fprintln(a.out, formatView(v))
	}
	return nil
}

func formatView(v applications.View) string {
	app := v.Application
	line := fmt.Sprintf("%s (applied %s)", app.CompanyName, app.AppliedDate)
	if !v.HasEvent {
		return line + "\n    no upcoming events"
	}
	ev := v.Event
	return fmt.Sprintf("%s\n    %s on %s %s", line, ev.Label, ev.DateString, progressBar(ev.Progress))
}

func progressBar(p float64) string {
	p = math.Max(0, math.Min(1, p))
	filled := int(math.Round(p * progressWidth))
	return fmt.Sprintf("[%s%s] %3.0f%%",
		strings.Repeat("#", filled), strings.Repeat(".", progressWidth-filled), p*100)
}
