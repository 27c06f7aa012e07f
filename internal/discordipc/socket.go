package discordipc

import "strconv"

func socketName(i int) string {
	return "discord-ipc-" + strconv.Itoa(i)
}
