// cmd/console/main.go — interactive sales console for a single operator.
// Drives the search-then-sell workflow against a running backend.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"partsdesk/internal/client"
	"partsdesk/internal/config"
	"partsdesk/internal/dto"
	"partsdesk/internal/money"
	"partsdesk/internal/session"
)

const usage = `commands:
  login <user> <pass>      obtain a bearer token
  register <user> <pass>   create an operator account
  search <id or name>      search the inventory
  sell <id>                select a part from the results for sale
  confirm <price>          confirm the staged sale at the given price
  cancel                   abandon the staged sale
  refresh                  re-fetch the inventory
  quit`

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	api := client.New(cfg.APIBaseURL)
	sess := session.New(api, logger)
	ctx := context.Background()

	fmt.Printf("partsdesk console — %s\n%s\n", cfg.APIBaseURL, usage)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd, args := fields[0], fields[1:]; cmd {
		case "quit", "exit":
			return
		case "help":
			fmt.Println(usage)

		case "login":
			if len(args) != 2 {
				fmt.Println("usage: login <user> <pass>")
				continue
			}
			if err := api.Login(ctx, args[0], args[1]); err != nil {
				fmt.Printf("login failed: %v\n", err)
				continue
			}
			fmt.Println("logged in")

		case "register":
			if len(args) != 2 {
				fmt.Println("usage: register <user> <pass>")
				continue
			}
			if err := api.Register(ctx, args[0], args[1]); err != nil {
				fmt.Printf("registration failed: %v\n", err)
				continue
			}
			fmt.Println("registered — now log in")

		case "search":
			results, err := sess.Search(ctx, strings.Join(args, " "))
			if err != nil {
				fmt.Println(sess.LastError())
				continue
			}
			if len(results) == 0 {
				fmt.Println("no matching parts found")
				continue
			}
			printParts(results)

		case "sell":
			id, err := parseID(args)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := sess.SelectForSale(id); err != nil {
				fmt.Println(sess.LastError())
				continue
			}
			fmt.Printf("part %d staged — confirm <price> or cancel\n", id)

		case "confirm":
			if len(args) != 1 {
				fmt.Println("usage: confirm <price>")
				continue
			}
			price, err := decimal.NewFromString(args[0])
			if err != nil {
				fmt.Println("price must be a decimal amount")
				continue
			}
			updated, err := sess.ConfirmSale(ctx, price)
			if err != nil {
				fmt.Println(sess.LastError())
				continue
			}
			fmt.Printf("part %d sold for %s\n", updated.ID, money.FormatINR(*updated.SoldPrice))

		case "cancel":
			sess.CancelSale()
			fmt.Println("sale cancelled")

		case "refresh":
			if err := sess.Refresh(ctx); err != nil {
				fmt.Println(sess.LastError())
				continue
			}
			fmt.Println("inventory refreshed")
			if n := sess.Violations(); n > 0 {
				fmt.Printf("warning: %d record(s) flagged inconsistent\n", n)
			}

		default:
			fmt.Printf("unknown command %q — try help\n", cmd)
		}
	}
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: sell <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("part id must be numeric")
	}
	return id, nil
}

func printParts(parts []dto.Part) {
	fmt.Printf("%-5s %-24s %-16s %-10s %-12s %-12s %14s %14s\n",
		"ID", "NAME", "MANUFACTURER", "STATUS", "AVAILABLE", "SOLD", "RECOMMENDED", "SOLD PRICE")
	for _, p := range parts {
		fmt.Printf("%-5d %-24s %-16s %-10s %-12s %-12s %14s %14s\n",
			p.ID, p.Name, p.Manufacturer, p.StockStatus,
			orBlank(p.AvailableFrom), orBlank(p.SoldDate),
			formatPrice(p.RecommendedPrice), formatPrice(p.SoldPrice))
	}
}

func orBlank(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatPrice(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return money.FormatINR(*d)
}
