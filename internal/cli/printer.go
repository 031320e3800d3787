package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/deimosfr/i3-status-info/internal/config"
	"github.com/deimosfr/i3-status-info/internal/display"
	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/render"
)

// PrinterFlags are the connection and display flags of a printer command.
type PrinterFlags struct {
	Profile                string
	URL                    string
	APIKey                 string
	Login                  string
	Password               string
	Timeout                string
	HideRemainingTime      bool
	ShortHideRemainingTime bool
}

var (
	octoprintFlags PrinterFlags
	prusaFlags     PrinterFlags
)

var octoprintCmd = &cobra.Command{
	Use:   "octoprint",
	Short: "OctoPrint job status",
	Long: `Query GET <url>/api/job with an API key and show the printer state, and while
printing the completion and remaining time.

A refused connection hides the block, so a powered-off printer leaves no trace.

Examples:
  i3-status-info octoprint -u http://octopi.local -a $OCTOPRINT_KEY
  i3-status-info octoprint --profile voron -r`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, func(ctx context.Context, s *session) (*render.Output, error) {
			return printerCommand(ctx, s, cmd.Flags(), config.BackendOctoprint, octoprintFlags)
		})
	},
}

var prusaLinkCmd = &cobra.Command{
	Use:   "prusa-link",
	Short: "PrusaLink job status",
	Long: `Query GET <url>/api/v1/status with a token or digest login and show the printer
state, and while printing the completion and remaining time.

A refused connection hides the block, so a powered-off printer leaves no trace.

Examples:
  i3-status-info prusa-link -u http://mk4.local -t $PRUSA_TOKEN
  i3-status-info prusa-link -u http://mk4.local -l maker -p secret
  i3-status-info prusa-link --profile mk4 --short-hide-remaining-time`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, func(ctx context.Context, s *session) (*render.Output, error) {
			return printerCommand(ctx, s, cmd.Flags(), config.BackendPrusaLink, prusaFlags)
		})
	},
}

func init() {
	addPrinterFlags(octoprintCmd, &octoprintFlags)
	octoprintCmd.Flags().StringVarP(&octoprintFlags.APIKey, "apikey", "a", "", "OctoPrint API key")

	addPrinterFlags(prusaLinkCmd, &prusaFlags)
	prusaLinkCmd.Flags().StringVarP(&prusaFlags.APIKey, "token", "t", "", "PrusaLink API token")
	prusaLinkCmd.Flags().StringVarP(&prusaFlags.Login, "login", "l", "", "digest login")
	prusaLinkCmd.Flags().StringVarP(&prusaFlags.Password, "password", "p", "", "digest password")

	rootCmd.AddCommand(octoprintCmd, prusaLinkCmd)
}

func addPrinterFlags(cmd *cobra.Command, flags *PrinterFlags) {
	cmd.Flags().StringVarP(&flags.URL, "url", "u", "", "printer base URL, e.g. http://printer.local")
	cmd.Flags().StringVar(&flags.Profile, "profile", "", "printer profile from the config file")
	cmd.Flags().StringVar(&flags.Timeout, "timeout", "", "request timeout, at most 1s (default 1s)")
	cmd.Flags().BoolVarP(&flags.HideRemainingTime, "hide-remaining-time", "r", false, "hide the remaining time")
	cmd.Flags().BoolVar(&flags.ShortHideRemainingTime, "short-hide-remaining-time", false, "hide the remaining time in the short text only")

	_ = cmd.RegisterFlagCompletionFunc("profile", profileCompletion(cmd.Name()))
}

// profileCompletion offers the config profiles of one backend.
func profileCompletion(backend string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		cfg, _, err := config.LoadOrDefault(configFlag)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		var names []string
		for name, p := range cfg.Printers {
			if p.Backend == backend {
				names = append(names, name)
			}
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

// resolvePrinter merges the profile, if any, with the flags. Flags set on the
// command line override profile values.
func resolvePrinter(s *session, set *pflag.FlagSet, backend string, flags PrinterFlags) (config.Printer, error) {
	var p config.Printer
	if flags.Profile != "" {
		var err error
		if p, err = s.cfg.Profile(flags.Profile, backend); err != nil {
			return config.Printer{}, err
		}
		s.log.Debug("using printer profile %s (%s)", flags.Profile, p.URL)
	}
	p.Backend = backend

	override := func(name string, dst *string, value string) {
		if set.Changed(name) || *dst == "" {
			*dst = value
		}
	}
	override("url", &p.URL, flags.URL)
	if backend == config.BackendOctoprint {
		override("apikey", &p.APIKey, flags.APIKey)
	} else {
		if set.Changed("token") && (set.Changed("login") || set.Changed("password")) {
			return config.Printer{}, errors.New(errors.ErrConfig, "Both token and login/password provided",
				"Use either --token or --login/--password, not both.")
		}
		// An auth scheme chosen on the command line replaces the profile's
		// other scheme instead of conflicting with it.
		if set.Changed("token") {
			p.Login, p.Password = "", ""
		}
		if set.Changed("login") || set.Changed("password") {
			p.APIKey = ""
		}
		override("token", &p.APIKey, flags.APIKey)
		override("login", &p.Login, flags.Login)
		override("password", &p.Password, flags.Password)
	}

	if set.Changed("timeout") || p.Timeout == 0 {
		timeout, err := ParseTimeout(flags.Timeout)
		if err != nil {
			return config.Printer{}, err
		}
		p.Timeout = timeout
	}
	if set.Changed("hide-remaining-time") {
		p.HideRemainingTime = flags.HideRemainingTime
	}
	return p, nil
}

func printerCommand(ctx context.Context, s *session, set *pflag.FlagSet, backend string, flags PrinterFlags) (*render.Output, error) {
	p, err := resolvePrinter(s, set, backend, flags)
	if err != nil {
		return nil, err
	}

	reading, err := pollPrinter(ctx, p)
	if err != nil {
		return nil, err
	}
	return display.Printer(reading, display.PrinterOptions{
		HideRemainingTime:      p.HideRemainingTime,
		ShortHideRemainingTime: flags.ShortHideRemainingTime,
	}), nil
}
