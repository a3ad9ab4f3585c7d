package sources

import (
	"context"
	"log"
	"os/exec"
	"strings"
	"time"
)

const (
	DefaultWifiCommand = "iwgetid -r"
	wifiCommandTimeout = 5 * time.Second
)

// CommandWifiSource reads the current SSID from a shell command's stdout.
type CommandWifiSource struct {
	name string
	args []string
}

func NewCommandWifiSource(command string) *CommandWifiSource {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = strings.Fields(DefaultWifiCommand)
	}
	return &CommandWifiSource{name: fields[0], args: fields[1:]}
}

// CurrentNetworkIdentifier returns the trimmed SSID; a failing command or
// empty output means no network.
func (s *CommandWifiSource) CurrentNetworkIdentifier(ctx context.Context) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, wifiCommandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, s.name, s.args...).Output()
	if err != nil {
		log.Printf("[Wifi] %s failed: %v", s.name, err)
		return "", false
	}
	ssid := strings.TrimSpace(string(out))
	return ssid, ssid != ""
}

// StaticWifiSource always reports the same network. Empty means none.
type StaticWifiSource string

func (s StaticWifiSource) CurrentNetworkIdentifier(context.Context) (string, bool) {
	return string(s), s != ""
}
