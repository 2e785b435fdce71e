package lifecycle

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// PIDByPort asks the OS which process is listening on a local TCP port.
// Best-effort: returns 0 when lsof is unavailable or nothing is listening.
func PIDByPort(port int) int {
	if port <= 0 {
		return 0
	}
	out, err := exec.Command("lsof", "-ti", fmt.Sprintf("tcp:%d", port), "-sTCP:LISTEN").Output()
	if err != nil {
		return 0
	}
	first := strings.TrimSpace(string(out))
	if idx := strings.IndexByte(first, '\n'); idx >= 0 {
		first = first[:idx]
	}
	pid, err := strconv.Atoi(first)
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}
