package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"LiveBoard/internal/config"
	"LiveBoard/internal/engine"
	lbnet "LiveBoard/internal/net"
	"LiveBoard/internal/state"
	"LiveBoard/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: user config dir)")
	join := flag.Bool("join", false, "browse the local network for a board to join")
	flag.Parse()

	loader := config.NewLoader(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := loader.Watch(); err != nil {
		log.Printf("[CONFIG] Hot reload disabled: %v", err)
	}
	defer loader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	room := state.NewRoom()
	eng := engine.New(room)
	eng.SetPenColor(cfg.PenColor())

	args := flag.Args()
	switch {
	case len(args) > 0 && strings.HasPrefix(args[0], lbnet.LinkScheme):
		runClient(ctx, cfg, loader, room, eng, args[0])
	case *join:
		runClient(ctx, cfg, loader, room, eng, "")
	default:
		runHost(ctx, cfg, loader, room, eng)
	}
}

func newApp(cfg *config.Config, loader *config.Loader, room *state.Room, eng *engine.Engine) *ui.App {
	a := ui.NewApp(cfg.Name, cfg.Export.Dir, room, eng)
	loader.OnChange(func(c *config.Config) {
		a.SetBoardName(c.Name)
		a.SetPenColor(c.PenColor())
		a.SetExportDir(c.Export.Dir)
	})
	return a
}

func runHost(ctx context.Context, cfg *config.Config, loader *config.Loader, room *state.Room, eng *engine.Engine) {
	log.Println("Starting as HOST")
	hub := lbnet.NewHub(room)

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Host.Port))
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	a := newApp(cfg, loader, room, eng)
	hub.OnPeersChanged = func(ids []int) {
		a.SetStatus(fmt.Sprintf("Hosting, %d guest(s) connected", len(ids)))
	}

	go func() {
		if err := hub.ServeListener(ctx, ln); err != nil {
			log.Printf("[HUB] Server stopped: %v", err)
		}
	}()

	if cfg.Host.MDNS {
		server, err := lbnet.Advertise(cfg.Name, port)
		if err != nil {
			log.Printf("[MDNS] Not advertising: %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	hostIP, err := lbnet.GetOutgoingIP()
	if err != nil {
		log.Printf("[HUB] Could not determine local IP: %v", err)
		hostIP = "127.0.0.1"
	}
	shareLink := lbnet.ShareLink(hostIP, port)
	log.Printf("Share link: %s", shareLink)

	a.SetShareLink(shareLink)
	a.Run()
}

func runClient(ctx context.Context, cfg *config.Config, loader *config.Loader, room *state.Room, eng *engine.Engine, link string) {
	log.Println("Starting as CLIENT")
	a := newApp(cfg, loader, room, eng)
	go connectToHost(ctx, cfg, room, a, link)
	a.Run()
}

func connectToHost(ctx context.Context, cfg *config.Config, room *state.Room, a *ui.App, link string) {
	addr, err := resolveHost(cfg, link)
	if err != nil {
		a.SetStatus(err.Error())
		log.Printf("[CLIENT] %v", err)
		return
	}

	a.SetStatus("Connecting to " + addr)
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := lbnet.Dial(dialCtx, addr, room)
	if err != nil {
		a.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		log.Printf("[CLIENT] %v", err)
		return
	}
	client.OnStatus = a.SetStatus
	if err := client.Run(ctx); err != nil {
		log.Printf("[CLIENT] %v", err)
	}
}

func resolveHost(cfg *config.Config, link string) (string, error) {
	if link != "" {
		return lbnet.ParseShareLink(link)
	}

	timeout := time.Duration(cfg.Host.DiscoverTimeoutMs) * time.Millisecond
	hosts, err := lbnet.Discover(timeout)
	if err != nil && len(hosts) == 0 {
		return "", fmt.Errorf("discover boards: %w", err)
	}
	if len(hosts) == 0 {
		return "", fmt.Errorf("no boards found on the local network")
	}
	log.Printf("[MDNS] Joining %q at %s", hosts[0].Name, hosts[0].Addr)
	return hosts[0].Addr, nil
}
