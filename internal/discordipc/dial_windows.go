//go:build windows

package discordipc

import (
	"net"

	"github.com/Microsoft/go-winio"
)

func socketPaths() []string {
	paths := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		paths = append(paths, `\\.\pipe\`+socketName(i))
	}
	return paths
}

func dialDiscord() (net.Conn, error) {
	for _, path := range socketPaths() {
		conn, err := winio.DialPipe(path, nil)
		if err == nil {
			return conn, nil
		}
	}
	return nil, ErrNoSocket
}
