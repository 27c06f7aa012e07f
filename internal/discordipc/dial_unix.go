//go:build !windows

package discordipc

import (
	"net"
	"os"
	"path/filepath"
)

// socketDirs lists the directories Discord may place its sockets in,
// including the Flatpak and Snap sandboxes.
func socketDirs() []string {
	var bases []string
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"} {
		if v := os.Getenv(env); v != "" {
			bases = append(bases, v)
		}
	}
	bases = append(bases, "/tmp")

	dirs := make([]string, 0, len(bases)*3)
	for _, b := range bases {
		dirs = append(dirs,
			b,
			filepath.Join(b, "app", "com.discordapp.Discord"),
			filepath.Join(b, "snap.discord"),
		)
	}
	return dirs
}

// socketPaths returns every candidate discord-ipc-N path in probe order.
func socketPaths() []string {
	var paths []string
	for _, dir := range socketDirs() {
		for i := 0; i < 10; i++ {
			paths = append(paths, filepath.Join(dir, socketName(i)))
		}
	}
	return paths
}

func dialDiscord() (net.Conn, error) {
	for _, path := range socketPaths() {
		conn, err := net.Dial("unix", path)
		if err == nil {
			return conn, nil
		}
	}
	return nil, ErrNoSocket
}
