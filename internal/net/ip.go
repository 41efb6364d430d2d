package net

import (
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

// LinkScheme prefixes share links, e.g. curveboard://192.168.1.20:8888.
const LinkScheme = "curveboard://"

// AutoHost in a share link asks the viewer to find the host via mDNS.
const AutoHost = "auto"

// ShareLink returns the link viewers use to reach a host at ip:port.
func ShareLink(ip string, port int) string {
	return fmt.Sprintf("%s%s", LinkScheme, net.JoinHostPort(ip, fmt.Sprint(port)))
}

// IsShareLink reports whether arg looks like a share link.
func IsShareLink(arg string) bool {
	return strings.HasPrefix(arg, LinkScheme)
}

// ParseShareLink returns the host:port part of a share link.
func ParseShareLink(link string) (string, error) {
	if !IsShareLink(link) {
		return "", fmt.Errorf("not a share link: %q", link)
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, LinkScheme), "/")
	if addr == AutoHost {
		return addr, nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("share link %q: %w", link, err)
	}
	return addr, nil
}

// SceneURL returns the websocket URL of the hub at addr.
func SceneURL(addr string) string {
	return "ws://" + addr + ScenePath
}

// OutgoingIP finds the preferred local IP address for the host to share.
func OutgoingIP(log *zap.Logger) string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		// No route to the internet, fall back to the local interfaces.
		return localIPFallback(log)
	}
	defer conn.Close()

	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func localIPFallback(log *zap.Logger) string {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Warn("listing interfaces", zap.Error(err))
		return "127.0.0.1"
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, _ := iface.Addrs()
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	log.Warn("no suitable local IP found, share link may not work")
	return "127.0.0.1"
}
