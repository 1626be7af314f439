// Command browse is a terminal client for the search gateway. It drives the
// interaction controller the same way a UI would: free text issues debounced
// searches, commands page, sort and filter the results.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"equipment_search_backend/internal/browse"
	"equipment_search_backend/internal/browse/client"
	"equipment_search_backend/internal/search/transport"
	"equipment_search_backend/platform/config"
	"equipment_search_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := client.New(cfg.APIBaseURL, 10*time.Second, log)
	controller := browse.New(ctx, browse.Config{
		PageSize: cfg.BrowsePageSize,
		Debounce: cfg.BrowseDebounce,
		Capabilities: browse.Capabilities{
			SortKeys: []string{"assignee", "manufactured", "serial", "model"},
			Filters:  []string{"category", "manufacturer", "dateRange"},
		},
	}, fetcher)
	defer controller.Close()

	fmt.Println("equipment search - type to search, :help for commands")
	controller.Refresh()
	render(waitSettled(controller, cfg.BrowseDebounce))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		if !strings.HasPrefix(line, ":") {
			controller.SetQueryText(line)
			render(waitSettled(controller, cfg.BrowseDebounce))
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ":quit", ":q":
			return
		case ":help":
			printHelp()
			continue
		case ":next":
			controller.NextPage()
		case ":prev":
			controller.PrevPage()
		case ":page":
			if len(fields) == 2 {
				if page, err := strconv.Atoi(fields[1]); err == nil {
					controller.SetPage(page)
				}
			}
		case ":sort":
			if len(fields) == 2 {
				controller.ToggleSort(fields[1])
			}
		case ":category":
			controller.SetCategory(strings.Join(fields[1:], " "))
		case ":manufacturer":
			controller.SetManufacturer(strings.Join(fields[1:], " "))
		case ":dates":
			from, to := "", ""
			if len(fields) > 1 {
				from = fields[1]
			}
			if len(fields) > 2 {
				to = fields[2]
			}
			controller.SetDateRange(from, to)
		default:
			fmt.Println("unknown command, :help for a list")
			continue
		}
		render(waitSettled(controller, cfg.BrowseDebounce))
	}
}

// waitSettled waits out a possible debounce window, then polls until the
// controller finished its pending fetch or gives up after a few seconds.
func waitSettled(controller *browse.Controller, debounce time.Duration) browse.View {
	time.Sleep(debounce + 50*time.Millisecond)

	deadline := time.Now().Add(5 * time.Second)
	for {
		view := controller.Snapshot()
		if !view.Loading || time.Now().After(deadline) {
			return view
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func render(view browse.View) {
	if view.Err != nil {
		fmt.Printf("error: %v (showing last results)\n", view.Err)
	}

	for _, row := range view.Rows {
		fmt.Printf("%-14s %-24s %-28s %-12s %s\n",
			str(row.Serial), str(row.Model), str(row.Manufacturer),
			str(row.Category), assigneeName(row))
	}
	if len(view.Rows) == 0 {
		fmt.Println("no results found")
	}

	fmt.Printf("page %d of %d - %d results", view.Page, view.TotalPages, view.TotalResults)
	if view.SortKey != "" {
		fmt.Printf(" - sorted by %s %s", view.SortKey, view.SortDir)
	}
	fmt.Println()
	if len(view.Categories) > 0 {
		fmt.Printf("categories on page: %s\n", strings.Join(view.Categories, ", "))
	}
}

func assigneeName(row transport.EquipmentRecord) string {
	if row.Assignee == nil {
		return ""
	}
	return strings.TrimSpace(str(row.Assignee.FirstName) + " " + str(row.Assignee.LastName))
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func printHelp() {
	fmt.Println(`commands:
  <text>                search (debounced)
  :next / :prev         page forward / back
  :page N               jump to page N
  :sort KEY             toggle sort (assignee, manufactured, serial, model)
  :category VALUE       filter by category (empty clears)
  :manufacturer VALUE   filter by manufacturer (empty clears)
  :dates FROM TO        RFC 3339 manufactured range (empty clears)
  :quit`)
}
