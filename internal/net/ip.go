package net

import (
	"fmt"
	"log"
	"net"
	"strings"
)

// LinkScheme prefixes share links handed out by a host.
const LinkScheme = "liveboard://"

// GetOutgoingIP finds the preferred local IP address for the host to share.
func GetOutgoingIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route out; fall back to the interface list.
		return getLocalIPFallback()
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

func getLocalIPFallback() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}
	log.Println("[HUB] No suitable local IP found, share link may not work off this machine")
	return "127.0.0.1", nil
}

// ShareLink builds the link guests paste to join a board hosted on port.
func ShareLink(ip string, port int) string {
	return fmt.Sprintf("%s%s", LinkScheme, net.JoinHostPort(ip, fmt.Sprint(port)))
}

// ParseShareLink returns the host:port a share link points at. A bare
// host:port is accepted as well.
func ParseShareLink(link string) (string, error) {
	addr := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(link), LinkScheme), "/")
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid share link %q: %w", link, err)
	}
	if host == "" || port == "" {
		return "", fmt.Errorf("invalid share link %q: missing host or port", link)
	}
	return addr, nil
}
