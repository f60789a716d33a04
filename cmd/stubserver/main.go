package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"parkdesk/internal/backendstub"
	"parkdesk/internal/entities"
)

func main() {
	godotenv.Load()

	secret := os.Getenv("PARKDESK_JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}
	addr := os.Getenv("PARKDESK_STUB_ADDR")
	if addr == "" {
		addr = ":5000"
	}

	srv := backendstub.New(secret)
	seed(srv)

	if err := srv.StartWatcher(5 * time.Second); err != nil {
		log.Fatalf("Error starting availability watcher: %v", err)
	}
	defer srv.StopWatcher()

	log.Printf("Stub backend listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func seed(srv *backendstub.Server) {
	users := []struct {
		email, password, fullName, address, pinCode string
	}{
		{"demo@parkdesk.local", "demo1234", "Demo User", "12 Ring Road", "380001"},
		{"admin@parkdesk.local", "admin1234", "Admin", "1 Depot Lane", "380002"},
	}
	for _, u := range users {
		if _, err := srv.Store.AddUser(u.email, u.password, u.fullName, u.address, u.pinCode); err != nil {
			log.Fatalf("Error seeding user %s: %v", u.email, err)
		}
	}

	lots := []entities.LotRequest{
		{LocationName: "Central Plaza", Address: "5 MG Road", PinCode: "380001", Price: 40, MaxSpots: 8},
		{LocationName: "Riverside Mall", Address: "22 Sabarmati Front", PinCode: "380005", Price: 30, MaxSpots: 5},
		{LocationName: "Station West", Address: "1 Railway Colony", PinCode: "380002", Price: 20, MaxSpots: 10},
	}
	for _, l := range lots {
		srv.Store.AddLot(l)
	}
}
