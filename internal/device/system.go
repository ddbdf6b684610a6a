package device

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/css-signage/css-agent-go/internal/models"
	"github.com/css-signage/css-agent-go/internal/sysd"
)

const (
	defaultRepoDir    = "/opt/css-agent"
	defaultDhcpcdPath = "/etc/dhcpcd.conf"

	browserFlagsFile = "browser_flags.txt"
	updateTimeout    = 30 * time.Second
)

// RestartBrowser restarts the kiosk browser unit.
func (c *Controller) RestartBrowser(ctx context.Context) *models.AppError {
	if err := c.sys.RestartUnit(ctx, sysd.KioskUnit); err != nil {
		return models.ErrExternalTool(err.Error())
	}
	return nil
}

// Reboot reboots the device via logind.
func (c *Controller) Reboot(ctx context.Context) *models.AppError {
	if err := c.sys.Reboot(ctx); err != nil {
		return models.ErrExternalTool(err.Error())
	}
	return nil
}

// Update pulls the latest agent code and restarts the agent unit on success.
// Returns the combined git output either way.
func (c *Controller) Update(ctx context.Context) (string, *models.AppError) {
	pullCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	cmd := exec.CommandContext(pullCtx, "git", "-C", c.repoDir, "pull")
	out, err := cmd.CombinedOutput()
	output := string(out)
	if pullCtx.Err() == context.DeadlineExceeded {
		return output, models.ErrExternalTool("update timed out")
	}
	if err != nil {
		return output, models.ErrExternalTool(fmt.Sprintf("git pull: %v", err))
	}

	// Restart to pick up the new code; the response races the restart, which
	// is fine — systemd keeps the unit up.
	if err := c.sys.RestartUnit(ctx, sysd.AgentUnit); err != nil {
		return output, models.ErrExternalTool(err.Error())
	}
	return output, nil
}

// SetAutoUpdate toggles the auto-update timer and mirrors the flag into the
// document so GET reflects it.
func (c *Controller) SetAutoUpdate(ctx context.Context, enabled bool) *models.AppError {
	return c.setTimerFlag(ctx, sysd.AutoUpdateTimer, enabled, func(cfg *models.Config) {
		cfg.AutoUpdate = enabled
	})
}

// SetNightlyReboot toggles the nightly reboot timer.
func (c *Controller) SetNightlyReboot(ctx context.Context, enabled bool) *models.AppError {
	return c.setTimerFlag(ctx, sysd.RebootTimer, enabled, func(cfg *models.Config) {
		cfg.NightlyReboot = enabled
	})
}

func (c *Controller) setTimerFlag(ctx context.Context, unit string, enabled bool, set func(*models.Config)) *models.AppError {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.sys.SetTimer(ctx, unit, enabled); err != nil {
		return models.ErrExternalTool(err.Error())
	}
	if _, err := c.apply(func(cfg *models.Config) error {
		set(cfg)
		return nil
	}); err != nil {
		return models.ErrConfigIO(err.Error())
	}
	return nil
}

// SetBrowserFlags persists extra chromium flags for the kiosk launch script
// and reloads the browser to pick them up.
func (c *Controller) SetBrowserFlags(ctx context.Context, flags []string) *models.AppError {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := filepath.Join(c.configDir, browserFlagsFile)
	content := strings.Join(flags, " ") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return models.ErrConfigIO("write browser flags: " + err.Error())
	}
	if err := c.driver.Reload(ctx); err != nil {
		return models.ErrExternalTool(err.Error())
	}
	return nil
}

// ConfigureNetwork rewrites the dhcpcd configuration for static or DHCP
// addressing. The change takes effect on the next reboot.
func (c *Controller) ConfigureNetwork(req models.NetworkRequest) *models.AppError {
	mode := req.Mode
	if mode == "" {
		mode = "static"
	}

	var content string
	switch mode {
	case "dhcp":
		content = "# Generated by css-agent\n# DHCP configuration\n"
	case "static":
		if req.IP == "" || req.Netmask == "" || req.Gateway == "" {
			return models.ErrValidation("ip, netmask, and gateway are required for static IP")
		}
		dns := req.DNS
		if dns == "" {
			dns = "8.8.8.8"
		}
		content = fmt.Sprintf(`# Generated by css-agent
# Static IP configuration

interface eth0
static ip_address=%s/%s
static routers=%s
static domain_name_servers=%s
`, req.IP, req.Netmask, req.Gateway, dns)
	default:
		return models.ErrValidation("mode must be \"static\" or \"dhcp\"")
	}

	if err := os.WriteFile(c.dhcpcdPath, []byte(content), 0644); err != nil {
		return models.ErrConfigIO("write dhcpcd.conf: " + err.Error())
	}
	return nil
}
