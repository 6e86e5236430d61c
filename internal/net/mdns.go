package net

import (
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_liveboard._tcp"

// Host is a board found on the local network.
type Host struct {
	Name string
	Addr string
}

// Advertise announces a hosted board under name. Shut the returned server
// down when the board closes.
func Advertise(name string, port int) (*mdns.Server, error) {
	instance, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		instance,
		serviceType,
		"",
		"",
		port,
		[]net.IP{firstIPv4()},
		[]string{"board=" + name},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[MDNS] Advertising %q on port %d", name, port)
	return server, nil
}

// Discover browses for hosted boards for up to timeout.
func Discover(timeout time.Duration) ([]Host, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	err := mdns.Query(params)
	close(entries)

	seen := make(map[string]bool)
	var hosts []Host
	for e := range entries {
		if e.AddrV4 == nil || e.Port == 0 {
			continue
		}
		addr := fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port)
		if seen[addr] {
			continue
		}
		seen[addr] = true
		hosts = append(hosts, Host{Name: boardName(e), Addr: addr})
	}
	if err != nil {
		return hosts, fmt.Errorf("mDNS query: %w", err)
	}
	log.Printf("[MDNS] Found %d board(s)", len(hosts))
	return hosts, nil
}

func boardName(e *mdns.ServiceEntry) string {
	for _, field := range e.InfoFields {
		if name, ok := strings.CutPrefix(field, "board="); ok && name != "" {
			return name
		}
	}
	return e.Host
}

func firstIPv4() net.IP {
	ifaces, _ := net.Interfaces()
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return net.IPv4(127, 0, 0, 1)
}
