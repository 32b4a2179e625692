package util

import (
	"fmt"
	"net"
	"os"
)

// PublicAddr derives an announceable http url from a listen address,
// replacing generic interfaces with the host name
func PublicAddr(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)

	ip := net.ParseIP(host)
	if err == nil && (host == "" || ip != nil && (ip.String() == "127.0.0.1" || ip.String() == "0.0.0.0")) {
		host, err = os.Hostname()
	}

	return fmt.Sprintf("http://%s:%s", host, port), err
}
