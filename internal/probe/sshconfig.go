package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/kevinburke/ssh_config"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

// SSHHost is the connection target an ssh_config alias points at.
type SSHHost struct {
	Alias    string
	Hostname string
	Port     int
}

// DefaultSSHConfigPath returns ~/.ssh/config.
func DefaultSSHConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ssh", "config")
	}
	return filepath.Join(home, ".ssh", "config")
}

// ResolveSSHAlias looks alias up in the given ssh config file and returns its
// HostName and Port. The alias itself is the hostname when HostName is unset;
// the port defaults to 22.
func ResolveSSHAlias(configPath, alias string) (*SSHHost, error) {
	if configPath == "" {
		configPath = DefaultSSHConfigPath()
	}

	f, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrUnavailable,
				fmt.Sprintf("SSH config %s not found", configPath),
				"Pass --host and --port instead of --ssh-alias.")
		}
		return nil, errors.WrapWithCode(err, errors.ErrPermission,
			fmt.Sprintf("Can't read SSH config %s", configPath), "")
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Can't parse SSH config %s", configPath), "")
	}

	if !declaresAlias(cfg, alias) {
		return nil, errors.New(errors.ErrUnavailable,
			fmt.Sprintf("SSH alias %q not found in %s", alias, configPath),
			"Use a Host entry from your SSH config.")
	}

	host := &SSHHost{Alias: alias, Hostname: alias, Port: 22}

	if hostname, _ := cfg.Get(alias, "HostName"); hostname != "" {
		host.Hostname = expandHostname(hostname, alias)
	}
	if port, _ := cfg.Get(alias, "Port"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrParse,
				fmt.Sprintf("Invalid Port %q for SSH alias %q", port, alias), "")
		}
		host.Port = p
	}

	return host, nil
}

// ListSSHAliases returns the concrete Host aliases of an ssh config file,
// sorted. A missing file has no aliases.
func ListSSHAliases(configPath string) ([]string, error) {
	if configPath == "" {
		configPath = DefaultSSHConfigPath()
	}

	f, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrPermission,
			fmt.Sprintf("Can't read SSH config %s", configPath), "")
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Can't parse SSH config %s", configPath), "")
	}

	aliases := concreteAliases(cfg)
	sort.Strings(aliases)
	return aliases, nil
}

// concreteAliases returns the Host patterns without wildcards that their own
// Host entry matches. Pattern.String drops the "!" of a negated pattern, so
// negation is detected through Host.Matches.
func concreteAliases(cfg *ssh_config.Config) []string {
	var aliases []string
	seen := make(map[string]bool)
	for _, host := range cfg.Hosts {
		for _, pattern := range host.Patterns {
			alias := pattern.String()
			if strings.ContainsAny(alias, "*?") || seen[alias] || !host.Matches(alias) {
				continue
			}
			seen[alias] = true
			aliases = append(aliases, alias)
		}
	}
	return aliases
}

// declaresAlias reports whether a concrete Host pattern names alias.
func declaresAlias(cfg *ssh_config.Config, alias string) bool {
	return slices.Contains(concreteAliases(cfg), alias)
}

// expandHostname handles the %h token, the only one meaningful for HostName.
func expandHostname(hostname, alias string) string {
	return strings.ReplaceAll(hostname, "%h", alias)
}
