// fleetctl is a terminal client for the SLGPS server. It logs in, pulls
// the same endpoints the web dashboard uses, and prints them as tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"

	"slgps/internal/api"
	"slgps/internal/models"
	"slgps/internal/session"
	"slgps/internal/ui/pages"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: fleetctl [flags] <command>

Commands:
  dashboard            Show the overview counters
  map                  Show the latest position of every bus
  buses                List buses
  drivers              List drivers
  users                List admin accounts
  alerts               List alerts (newest first)
  resolve <alert-id>   Dismiss an alert
  schedules            List trips grouped by weekday
  options              List schedule suggestions
  reports              List performance reports
  settings             Show dashboard settings`)
	flag.PrintDefaults()
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "SLGPS server URL")
	email := flag.String("email", os.Getenv("SLGPS_EMAIL"), "Login email")
	password := flag.String("password", os.Getenv("SLGPS_PASSWORD"), "Login password")
	sortBy := flag.String("sort", "", "Sort column for list commands")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	client := api.NewClient(*serverURL+"/api", session.NewStore())

	user, err := client.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("❌ Login failed: %v", err)
	}
	fmt.Printf("✓ Logged in as %s\n\n", user.Name)

	switch cmd := flag.Arg(0); cmd {
	case "dashboard":
		showDashboard(ctx, client)
	case "map":
		showMap(ctx, client)
	case "buses":
		showBuses(ctx, client, *sortBy)
	case "drivers":
		showDrivers(ctx, client)
	case "users":
		showUsers(ctx, client)
	case "alerts":
		showAlerts(ctx, client, *sortBy)
	case "resolve":
		resolveAlert(ctx, client, flag.Arg(1))
	case "schedules":
		showSchedules(ctx, client)
	case "options":
		showOptions(ctx, client)
	case "reports":
		showReports(ctx, client)
	case "settings":
		showSettings(ctx, client)
	default:
		log.Fatalf("❌ Unknown command %q", cmd)
	}
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func showDashboard(ctx context.Context, client *api.Client) {
	page := pages.NewDashboard(client)
	page.Loader.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	for _, card := range page.StatCards() {
		fmt.Printf("%-14s %d\n", card.Label, card.Value)
	}
}

func showMap(ctx context.Context, client *api.Client) {
	page := pages.NewLiveMap(client)
	page.Loader.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	w := table()
	fmt.Fprintln(w, "PLATE\tLAT\tLON\tSPEED\tSEEN")
	for _, loc := range page.Positions() {
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%.0f km/h\t%s\n",
			loc.PlateNumber, loc.Latitude, loc.Longitude, loc.Speed,
			loc.Timestamp.Local().Format("15:04:05"))
	}
	w.Flush()
}

func showBuses(ctx context.Context, client *api.Client, sortBy string) {
	page := pages.NewBuses(client)
	page.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if sortBy != "" {
		page.Table.RequestSort(sortBy)
	}

	w := table()
	fmt.Fprintln(w, "ID\tPLATE\tMODEL\tSTATUS\tGPS")
	for _, b := range page.Table.View() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.PlateNumber, b.Model, b.Status, b.GPSStatus)
	}
	w.Flush()
}

func showDrivers(ctx context.Context, client *api.Client) {
	page := pages.NewDrivers(client)
	page.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	w := table()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tBUS")
	for _, d := range page.Table.View() {
		bus := "-"
		if d.AssignedBusID != nil {
			bus = strconv.FormatInt(*d.AssignedBusID, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Email, d.Phone, bus)
	}
	w.Flush()
}

func showUsers(ctx context.Context, client *api.Client) {
	page := pages.NewUsers(client)
	page.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	w := table()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
	for _, u := range page.Table.View() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, u.Status)
	}
	w.Flush()
}

func showAlerts(ctx context.Context, client *api.Client, sortBy string) {
	page := pages.NewAlerts(client)
	page.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	if sortBy != "" {
		page.Table.RequestSort(sortBy)
	}

	w := table()
	fmt.Fprintln(w, "ID\tTYPE\tSEVERITY\tSTATUS\tBUS\tWHEN")
	for _, a := range page.Table.View() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Type, a.Severity, a.Status, a.Bus.PlateNumber,
			a.Timestamp.Local().Format("Jan 02 15:04"))
	}
	w.Flush()
}

func resolveAlert(ctx context.Context, client *api.Client, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		log.Fatal("❌ resolve needs a numeric alert id")
	}

	page := pages.NewAlerts(client)
	page.Refresh(ctx)
	page.Dismiss(ctx, id)
	if notice := page.Notice(); notice != "" {
		log.Fatalf("❌ %s", notice)
	}
	fmt.Printf("✓ Alert %d resolved\n", id)
}

func showSchedules(ctx context.Context, client *api.Client) {
	page := pages.NewSchedules(client)
	page.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	grouped := page.Grouped()
	for _, day := range models.Weekdays {
		trips := grouped[day]
		if len(trips) == 0 {
			continue
		}
		fmt.Printf("%s\n", day)
		w := table()
		for _, s := range trips {
			fmt.Fprintf(w, "  %s\t%s -> %s\t%s\t%s\n",
				s.Route, s.DepartureTime, s.ArrivalTime, s.Bus.PlateNumber, s.Driver.Name)
		}
		w.Flush()
	}
}

func showOptions(ctx context.Context, client *api.Client) {
	page := pages.NewSchedules(client)
	page.Refresh(ctx)
	if err := page.Options.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	w := table()
	fmt.Fprintln(w, "DAY\tBUS\tDRIVER\tREASON")
	for _, o := range page.Suggestions() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Day, o.Bus.PlateNumber, o.Driver.Name, o.Reason)
	}
	w.Flush()
}

func showReports(ctx context.Context, client *api.Client) {
	page := pages.NewPerformance(client)
	page.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	w := table()
	fmt.Fprintln(w, "BUS\tDATE\tAVG SPEED\tMISSED\tALERTS\tUPTIME")
	for _, r := range page.Table.View() {
		fmt.Fprintf(w, "%s\t%s\t%.1f km/h\t%d\t%d\t%.1f%%\n",
			r.Bus.PlateNumber, r.ReportDate, r.AverageSpeed, r.StopsMissed, r.AlertsRaised, r.UptimePercent)
	}
	w.Flush()
}

func showSettings(ctx context.Context, client *api.Client) {
	page := pages.NewSettings(client)
	page.Refresh(ctx)
	if err := page.Loader.Err(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	prefs, _ := page.Loader.Data()
	fmt.Printf("Dark mode      %v\n", prefs.DarkMode)
	fmt.Printf("Notifications  %v\n", prefs.Notifications)
	fmt.Printf("Refresh rate   %ds\n", prefs.RefreshRate)
}
