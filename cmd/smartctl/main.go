// Command smartctl prints SmartFood views from a running server.
//
// Usage:
//
//	smartctl [flags] dashboard
//	smartctl [flags] report
//	smartctl [flags] fridge
//	smartctl [flags] cookable
//	smartctl [flags] week [YYYY-MM-DD]
//	smartctl [flags] complete <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dukerupert/smartfood/internal/client"
	"github.com/dukerupert/smartfood/internal/dashboard"
	"github.com/dukerupert/smartfood/internal/fridge"
	"github.com/dukerupert/smartfood/internal/logging"
	"github.com/dukerupert/smartfood/internal/mealplan"
	"github.com/dukerupert/smartfood/internal/model"
	"github.com/dukerupert/smartfood/internal/recipe"
	"github.com/dukerupert/smartfood/internal/report"
)

type options struct {
	url     string
	token   string
	today   string
	missing int
	mode    string
	verbose bool
}

func main() {
	var opts options
	fs := flag.NewFlagSet("smartctl", flag.ExitOnError)
	fs.StringVar(&opts.url, "url", envOr("SMARTFOOD_URL", "http://localhost:8080"), "server base URL")
	fs.StringVar(&opts.token, "token", os.Getenv("SMARTFOOD_TOKEN"), "bearer token")
	fs.StringVar(&opts.today, "today", "", "treat this date (YYYY-MM-DD) as today")
	fs.IntVar(&opts.missing, "missing", recipe.DefaultMatcher.Threshold, "missing ingredients a cookable dish may have")
	fs.StringVar(&opts.mode, "mode", string(recipe.DefaultMatcher.Mode), "ingredient match mode: exact or substring")
	fs.BoolVar(&opts.verbose, "v", false, "log requests")
	fs.Parse(os.Args[1:])

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, fs.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "smartctl:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

var errUsage = errors.New("usage: smartctl [flags] dashboard|report|fridge|cookable|week [date]|complete <id>")

func run(ctx context.Context, opts options, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	now := time.Now()
	if opts.today != "" {
		d, err := civil.ParseDate(opts.today)
		if err != nil {
			return fmt.Errorf("invalid -today: %w", err)
		}
		now = time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.Local)
	}

	level := "error"
	if opts.verbose {
		level = "debug"
	}
	c := client.New(client.Config{
		BaseURL: opts.url,
		Token:   opts.token,
		Logger:  logging.New(os.Stderr, level, "text"),
	})
	defer c.Close()

	switch args[0] {
	case "dashboard":
		return runDashboard(ctx, c, now, out)
	case "report":
		return runReport(ctx, c, now, out)
	case "fridge":
		return runFridge(ctx, c, now, out)
	case "cookable":
		mode, err := recipe.ParseMode(opts.mode)
		if err != nil {
			return err
		}
		return runCookable(ctx, c, recipe.Matcher{Threshold: opts.missing, Mode: mode}, out)
	case "week":
		ref := civil.DateOf(now)
		if len(args) > 1 {
			d, err := civil.ParseDate(args[1])
			if err != nil {
				return fmt.Errorf("invalid date %q", args[1])
			}
			ref = d
		}
		return runWeek(ctx, c, ref, out)
	case "complete":
		if len(args) < 2 {
			return errUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		return runComplete(ctx, c, id, out)
	}
	return errUsage
}

var vnd = message.NewPrinter(language.Vietnamese)

func money(v int64) string {
	return vnd.Sprintf("%dđ", v)
}

func refetch(ctx context.Context, rs ...interface{ Refetch(context.Context) error }) error {
	for _, r := range rs {
		if err := r.Refetch(ctx); err != nil {
			return err
		}
	}
	return nil
}

func runDashboard(ctx context.Context, c *client.Client, now time.Time, out io.Writer) error {
	if err := refetch(ctx, c.Groceries, c.Fridge, c.MealPlans); err != nil {
		return err
	}
	snap := c.Snapshot()
	s := dashboard.Compute(dashboard.Snapshot{Groceries: snap.Groceries, Fridge: snap.Fridge, MealPlans: snap.MealPlans}, fridge.DefaultPolicy, now)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Expiring soon\t%d\n", s.ExpiringSoon)
	fmt.Fprintf(tw, "Groceries to buy\t%d\n", s.PendingGroceries)
	fmt.Fprintf(tw, "Fridge items\t%d\n", s.FridgeItems)
	fmt.Fprintf(tw, "Meals this week\t%d\n", s.MealsThisWeek)
	return tw.Flush()
}

func runReport(ctx context.Context, c *client.Client, now time.Time, out io.Writer) error {
	if err := refetch(ctx, c.Purchases, c.Fridge); err != nil {
		return err
	}
	s := report.DefaultConfig.Build(c.Purchases.List(), c.Fridge.List(), now)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total spend\t%s\t(%d purchases)\n", money(s.TotalSpend), s.PurchaseCount)
	fmt.Fprintf(tw, "Estimated waste\t%s\t(%d expired)\n", money(s.EstimatedWaste), s.ExpiredCount)
	fmt.Fprintf(tw, "Estimated savings\t%s\t\n", money(s.EstimatedSavings))
	fmt.Fprintln(tw, "\t\t")
	for _, cs := range s.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\t\n", cs.Category, money(cs.Amount))
	}
	fmt.Fprintln(tw, "\t\t")
	for _, m := range s.Monthly {
		fmt.Fprintf(tw, "%s\t%s\twaste %s\n", m.Label, money(m.Spend), money(m.Waste))
	}
	return tw.Flush()
}

func runFridge(ctx context.Context, c *client.Client, now time.Time, out io.Writer) error {
	if err := c.Fridge.Refetch(ctx); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tWHERE\tEXPIRES\tDAYS\tSTATUS")
	for _, it := range fridge.Annotate(c.Fridge.List(), now) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.Name, it.Location, it.ExpiryDate, it.DaysLeft, it.Status)
	}
	return tw.Flush()
}

func runCookable(ctx context.Context, c *client.Client, m recipe.Matcher, out io.Writer) error {
	if err := refetch(ctx, c.Dishes, c.Fridge); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISH\tCOOKABLE\tHAVE\tMISSING")
	for _, dm := range m.Rank(c.Dishes.List(), recipe.AvailableFromFridge(c.Fridge.List())) {
		yes := "no"
		if dm.Cookable {
			yes = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%v\n", dm.Dish.Name, yes, len(dm.Available), dm.Missing)
	}
	return tw.Flush()
}

func runWeek(ctx context.Context, c *client.Client, ref civil.Date, out io.Writer) error {
	if err := c.MealPlans.Refetch(ctx); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tBREAKFAST\tLUNCH\tDINNER")
	for _, day := range mealplan.Week(c.MealPlans.List(), mealplan.WeekOf(ref)) {
		fmt.Fprintf(tw, "%s %s", day.Date.In(time.UTC).Weekday().String()[:3], day.Date)
		for _, t := range model.MealTimes {
			name := "-"
			if mp, ok := day.Meals[t]; ok && mp.Dish != nil {
				name = mp.Dish.Name
			}
			fmt.Fprintf(tw, "\t%s", name)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func runComplete(ctx context.Context, c *client.Client, id int64, out io.Writer) error {
	if err := c.Groceries.Refetch(ctx); err != nil {
		return err
	}
	rec, err := c.Groceries.Complete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "bought %s (%s) for %s\n", rec.ItemName, rec.Amount, money(rec.PriceOrZero()))
	return nil
}
