package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"parkdesk/internal/client"
	"parkdesk/internal/config"
	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
	"parkdesk/internal/plate"
	"parkdesk/internal/realtime"
	"parkdesk/internal/service"
	"parkdesk/internal/session"
	"parkdesk/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	store, err := session.Open(cfg.StorePath)
	if err != nil {
		log.Fatalf("Error opening session store: %v", err)
	}
	defer store.Close()

	api := client.New(cfg.BaseURL)
	notifier := notify.NewLog()
	in := bufio.NewScanner(os.Stdin)

	sess, err := store.Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
		sess, err = login(api, store, in)
		if err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	case err != nil:
		log.Fatalf("Error loading session: %v", err)
	default:
		api.SetToken(sess.Token)
	}
	fmt.Printf("Welcome, %s\n", sess.FullName)

	validator, err := plate.NewValidator(cfg.PlatePolicy)
	if err != nil {
		log.Fatalf("Error building plate validator: %v", err)
	}

	directory := service.NewDirectoryService(api, store, notifier)
	summary := service.NewSummaryService(api, store, notifier, sess.UserID)
	reserve := service.NewReservationService(api, validator, notifier, directory, summary, sess.UserID)
	vacate := service.NewVacateService(api, notifier, directory, summary, sess.UserID)
	vacate.Confirm = confirm(in)
	admin := service.NewAdminService(api, notifier)
	admin.Confirm = confirm(in)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	directory.Load(ctx, nil)
	summary.Load(ctx)

	bridge, err := realtime.Dial(ctx, cfg.SocketURL, sess.UserID, directory, notifier)
	if err != nil {
		log.Printf("Realtime updates unavailable: %v", err)
	} else {
		defer bridge.Close()
		go bridge.Run(ctx)
	}

	poller, err := service.StartPoller(cfg.RefreshInterval, directory, summary)
	if err != nil {
		log.Fatalf("Error starting background refresh: %v", err)
	}
	defer poller.Stop()

	repl(ctx, cfg, in, store, bridge, directory, summary, reserve, vacate, admin)
}

func login(api *client.Client, store *session.Store, in *bufio.Scanner) (session.Session, error) {
	email := prompt(in, "Email: ")
	password := prompt(in, "Password: ")
	resp, err := api.Login(context.Background(), email, password)
	if err != nil {
		return session.Session{}, err
	}
	sess := session.Session{UserID: resp.UserID, FullName: resp.FullName, Token: resp.Token}
	if err := store.Save(sess); err != nil {
		log.Printf("Failed to persist session: %v", err)
	}
	return sess, nil
}

func repl(ctx context.Context, cfg config.Config, in *bufio.Scanner,
	store *session.Store, bridge *realtime.Bridge,
	directory *service.DirectoryService, summary *service.SummaryService,
	reserve *service.ReservationService, vacate *service.VacateService, admin *service.AdminService) {

	fmt.Println(`Commands: lots, search, reserve, vacate, summary, admin-lots, admin-stats, users, spot, logout, quit`)
	for {
		line := prompt(in, "> ")
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "lots":
			directory.Refresh(ctx)
			for _, entry := range directory.Entries() {
				fmt.Println(entry.Label())
			}

		case "search":
			filter := entities.LotFilter{}
			if len(args) > 0 {
				filter.Name = args[0]
			}
			if len(args) > 1 {
				filter.PinCode = args[1]
			}
			directory.Load(ctx, &filter)
			for _, entry := range directory.Entries() {
				fmt.Println(entry.Label())
			}

		case "reserve":
			if len(args) < 2 {
				fmt.Println("usage: reserve <lot_id> <vehicle_number>")
				continue
			}
			reserve.SetVehicleInput(args[1])
			reserve.Reserve(ctx, args[0], reserve.VehicleInput())

		case "vacate":
			if cfg.Mode == config.ModeMulti && len(args) >= 2 {
				spotID, err := strconv.Atoi(args[0])
				if err != nil {
					fmt.Println("usage: vacate <spot_id> <vehicle_number>")
					continue
				}
				vacate.VacateSpot(ctx, spotID, args[1])
				continue
			}
			vacate.Vacate(ctx)

		case "summary":
			summary.Load(ctx)
			for _, row := range summary.Rows() {
				fmt.Printf("%-20s %-6s %-12s %-20s %-20s %s\n",
					row.LotName, row.Spot, row.VehicleNumber, row.TimeIn, row.TimeOut, row.Duration)
			}
			if active := summary.Active(); active != nil {
				fmt.Printf("Active reservation: spot %d at %s\n", active.Spot, active.LotName)
			}

		case "admin-lots":
			lots, err := admin.Lots(ctx)
			if err != nil {
				continue
			}
			for _, card := range view.LotCards(lots) {
				fmt.Printf("%s %s\n", card.Title, card.OccupiedLabel)
				for _, cell := range card.Spots {
					state := "vacant"
					if cell.Occupied {
						state = "occupied"
					}
					fmt.Printf("  %s [%d] %s\n", cell.Name, cell.ID, state)
				}
			}

		case "admin-stats":
			stats, err := admin.Summary(ctx)
			if err != nil {
				continue
			}
			headline := view.Stats(*stats)
			fmt.Printf("Lots: %d  Revenue: %.2f  Occupied: %d  Vacant: %d\n",
				headline.TotalLots, headline.TotalRevenue, headline.TotalOccupied, headline.TotalVacant)
			for _, bar := range view.Utilization(stats.Occupancy) {
				fmt.Printf("%-20s %.1f%%\n", bar.LocationName, bar.Rate)
			}

		case "users":
			users, err := admin.Users(ctx)
			if err != nil {
				continue
			}
			for _, u := range users {
				fmt.Printf("%d  %s  %s\n", u.ID, u.FullName, u.Email)
			}

		case "spot":
			if len(args) < 1 {
				fmt.Println("usage: spot <spot_id>")
				continue
			}
			spotID, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("usage: spot <spot_id>")
				continue
			}
			detail, err := admin.SpotDetail(ctx, spotID)
			if err != nil {
				continue
			}
			fmt.Printf("Spot %d in lot %d is %s\n", detail.ID, detail.LotID, detail.Status)
			if detail.Status == entities.SpotOccupied {
				fmt.Printf("  %s (%s), vehicle %s, since %s\n",
					detail.UserName, detail.UserEmail, detail.VehicleNumber, detail.TimeIn)
			}

		case "logout":
			// Leave the push channel before dropping the local identity.
			if bridge != nil {
				bridge.Close()
			}
			if err := store.Clear(); err != nil {
				log.Printf("Failed to clear session: %v", err)
			}
			fmt.Println("Logged out")
			return

		case "quit", "exit":
			return

		default:
			fmt.Printf("Unknown command %q\n", cmd)
		}
	}
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !in.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(in.Text())
}

func confirm(in *bufio.Scanner) func(string) bool {
	return func(message string) bool {
		answer := prompt(in, message+" [y/N] ")
		return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
	}
}
