// Command dashboard is a terminal client for the expense tracker: it logs
// in, loads the user's expenses and categories, prints the monthly summary
// and renders the expense distribution chart to a PNG file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Chunsinee/expenseTracker/internal/dashboard"
	"github.com/Chunsinee/expenseTracker/internal/logger"
)

func main() {
	var (
		serverURL = flag.String("server", "http://localhost:8080", "API base URL")
		username  = flag.String("user", "", "username")
		password  = flag.String("password", "", "password (or DASHBOARD_PASSWORD)")
		year      = flag.Int("year", time.Now().Year(), "year to display")
		month     = flag.Int("month", int(time.Now().Month())-1, "zero-based month to display (0 = January)")
		limit     = flag.Int("limit", 500, "maximum expenses to fetch")
		chartOut  = flag.String("chart", "expenses.png", "chart output file (empty to skip)")
		tokenFile = flag.String("token-file", "", "persist the bearer token in this file")
	)
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("DASHBOARD_PASSWORD")
	}
	if *month < 0 || *month > 11 {
		logger.Log.Fatal().Int("month", *month).Msg("Month must be between 0 and 11")
	}

	var store dashboard.TokenStore = dashboard.NewMemoryTokenStore()
	if *tokenFile != "" {
		store = dashboard.NewFileTokenStore(*tokenFile)
	}

	ctx := context.Background()
	client := dashboard.NewClient(*serverURL, store)

	entries, _, err := loadWithLogin(ctx, client, *username, *password, *limit)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load dashboard data")
	}

	period := dashboard.Period{Year: *year, Month: *month}
	vm := dashboard.BuildViewModel(entries, period)
	printViewModel(vm)

	if *chartOut != "" && len(vm.Buckets) > 0 {
		data, err := dashboard.RenderChart(vm)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to render chart")
		}
		if err := os.WriteFile(*chartOut, data, 0o644); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to write chart file")
		}
		fmt.Printf("\nChart written to %s\n", *chartOut)
	}
}

// loadWithLogin loads dashboard data, logging in first when the stored
// token is missing or rejected.
func loadWithLogin(ctx context.Context, client *dashboard.Client, username, password string, limit int) ([]dashboard.Entry, []dashboard.Category, error) {
	entries, categories, err := client.LoadDashboard(ctx, limit)
	if err == nil {
		return entries, categories, nil
	}
	if !errors.Is(err, dashboard.ErrUnauthorized) {
		return nil, nil, err
	}

	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("not logged in: provide -user and -password")
	}
	if _, err := client.Login(ctx, username, password); err != nil {
		return nil, nil, err
	}
	return client.LoadDashboard(ctx, limit)
}

func printViewModel(vm dashboard.ViewModel) {
	fmt.Printf("Spending for %s %d\n\n", dashboard.MonthNames[vm.Period.Month], vm.Period.Year)
	fmt.Printf("Total: %s\n", vm.Total.StringFixed(2))
	fmt.Printf("Top category: %s (%s, %d%%)\n\n", vm.TopCategory.Name, vm.TopCategory.Total.StringFixed(2), vm.TopPercent)

	if len(vm.Buckets) > 0 {
		fmt.Println("By category:")
		for _, b := range vm.Buckets {
			fmt.Printf("  %-20s %12s\n", b.Name, b.Total.StringFixed(2))
		}
		fmt.Println()
	}

	if len(vm.Recent) > 0 {
		fmt.Println("Recent expenses:")
		for _, e := range vm.Recent {
			note := e.Note
			if note == "" {
				note = "-"
			}
			fmt.Printf("  %s  %12s  %-20s %s\n", e.Date.Format("2006-01-02"), e.Amount.StringFixed(2), e.Category, note)
		}
	} else {
		fmt.Println("No expenses found for this period")
	}
}
