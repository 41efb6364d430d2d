package net

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_curveboard._tcp"

// ErrNoHost is returned by Discover when no sharing host answered.
var ErrNoHost = errors.New("no curveboard host found")

// Advertise announces a scene hub listening on port. Shut the returned
// server down to stop announcing.
func Advertise(port int, session string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"CurveBoard", "session=" + session}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discover browses the local network for timeout and returns the address
// (host:port) of the first host found.
func Discover(timeout time.Duration) (string, error) {
	var (
		first string
		once  sync.Once
	)
	err := browse(timeout, func(addr string) {
		once.Do(func() { first = addr })
	})
	if err != nil {
		return "", err
	}
	if first == "" {
		return "", ErrNoHost
	}
	return first, nil
}

// browse calls found for every IPv4 service entry seen before timeout. It
// returns once every entry has been handed to found.
func browse(timeout time.Duration, found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port))
		}
	}()

	err := mdns.Query(&mdns.QueryParam{
		Service:     serviceType,
		Domain:      "local",
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	})
	close(entries)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("mdns query: %w", err)
	}
	return nil
}
