package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/deimosfr/i3-status-info/internal/config"
	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/printer"
	"github.com/deimosfr/i3-status-info/internal/ui"
)

// ConfigInitOptions holds options for the config init command.
type ConfigInitOptions struct {
	Path              string
	Name              string
	Backend           string
	URL               string
	APIKey            string
	Login             string
	Password          string
	HideRemainingTime bool
	Overwrite         bool // Replace an existing profile without asking
	NonInteractive    bool // Skip prompts, use the flags as given
	SkipTest          bool // Save without polling the printer first
}

var initOpts ConfigInitOptions

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage printer profiles and settings",
	Long: `Inspect and edit the config file (default ~/.config/i3-status-info/config.yaml).

Printer profiles keep URLs and credentials out of your bar config:

  printers:
    mk4:
      backend: prusa-link
      url: http://mk4.local
      login: maker
      password: ${PRUSA_PASSWORD}

Then use: i3-status-info prusa-link --profile mk4`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config with secrets masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List printer profiles and whether they are usable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configListCommand(cmd.OutOrStdout())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Add or replace a printer profile",
	Long: `Add a printer profile to the config file, creating the file if needed.

Without --non-interactive a form asks for the details. The printer is polled
once before saving unless --skip-test is given.

Examples:
  i3-status-info config init
  i3-status-info config init --non-interactive --name mk4 --backend prusa-link \
    --url http://mk4.local --login maker --password '${PRUSA_PASSWORD}'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		opts.Path = configFlag
		return ConfigInit(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	f := configInitCmd.Flags()
	f.StringVar(&initOpts.Name, "name", "", "profile name")
	f.StringVar(&initOpts.Backend, "backend", "", "octoprint or prusa-link")
	f.StringVar(&initOpts.URL, "url", "", "printer base URL")
	f.StringVar(&initOpts.APIKey, "key", "", "OctoPrint API key or PrusaLink token (${VAR} reads the environment)")
	f.StringVar(&initOpts.Login, "login", "", "PrusaLink digest login")
	f.StringVar(&initOpts.Password, "password", "", "PrusaLink digest password (${VAR} reads the environment)")
	f.BoolVar(&initOpts.HideRemainingTime, "hide-remaining-time", false, "hide the remaining time by default")
	f.BoolVar(&initOpts.Overwrite, "force", false, "replace an existing profile without asking")
	f.BoolVar(&initOpts.NonInteractive, "non-interactive", false, "use flags only, never prompt")
	f.BoolVar(&initOpts.SkipTest, "skip-test", false, "save without polling the printer")
	_ = configInitCmd.RegisterFlagCompletionFunc("backend",
		fixedCompletion(config.BackendOctoprint, config.BackendPrusaLink))

	configCmd.AddCommand(configShowCmd, configListCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func configShowCommand(stdout, stderr io.Writer) error {
	cfg, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	if path == "" {
		fmt.Fprintf(stdout, "# no config file, defaults shown (%s)\n", config.DefaultPath())
	} else {
		fmt.Fprintf(stdout, "# %s\n", path)
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), errors.ShortMessage(err))
	}
	return config.Show(stdout, cfg)
}

func configListCommand(stdout io.Writer) error {
	cfg, _, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Printers))
	for name := range cfg.Printers {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]ui.ProfileRow, 0, len(names))
	for _, name := range names {
		p := cfg.Printers[name]
		row := ui.ProfileRow{
			Name:    name,
			Backend: p.Backend,
			URL:     p.URL,
			Auth:    p.RawOptions().Auth().String(),
		}
		if err := config.ValidatePrinter(name, p); err != nil {
			row.Problem = errors.ShortMessage(err)
		}
		rows = append(rows, row)
	}

	_, err = io.WriteString(stdout, ui.RenderProfileTable(rows))
	return err
}

// ConfigInit adds a printer profile to the config file.
func ConfigInit(ctx context.Context, out io.Writer, opts ConfigInitOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	path := config.ExpandTilde(opts.Path)
	if path == "" {
		path = config.DefaultPath()
	}

	if !opts.NonInteractive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				"config init needs a terminal",
				"Use --non-interactive with --name, --backend and --url")
		}
		if err := runInitForm(&opts); err != nil {
			return err
		}
	}

	p := config.Printer{
		Backend:           opts.Backend,
		URL:               strings.TrimRight(strings.TrimSpace(opts.URL), "/"),
		APIKey:            opts.APIKey,
		Login:             opts.Login,
		Password:          opts.Password,
		HideRemainingTime: opts.HideRemainingTime,
	}
	if err := config.ValidatePrinter(opts.Name, p); err != nil {
		return err
	}

	replace, err := confirmReplace(path, opts)
	if err != nil || !replace {
		if err == nil {
			fmt.Fprintln(out, "Cancelled.")
		}
		return err
	}

	if !opts.SkipTest {
		if err := testPrinter(ctx, out, opts, p); err != nil {
			return err
		}
	}

	if err := config.SetPrinter(path, opts.Name, p); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Saved printer '%s' to %s\n\n", ui.SuccessStyle().Render(ui.SymbolSuccess), opts.Name, path)
	fmt.Fprintln(out, "Use it in your bar config:")
	fmt.Fprintf(out, "  %s %s --profile %s\n", rootCmd.Name(), p.Backend, opts.Name)
	return nil
}

// confirmReplace reports whether the profile may be written. An existing
// profile is only replaced with --force or after confirmation.
func confirmReplace(path string, opts ConfigInitOptions) (bool, error) {
	if opts.Overwrite {
		return true, nil
	}
	if _, err := os.Stat(path); err != nil {
		return true, nil
	}

	cfg, err := config.Load(path)
	if err != nil {
		return false, err
	}
	if _, exists := cfg.Printers[opts.Name]; !exists {
		return true, nil
	}

	if opts.NonInteractive {
		return false, errors.New(errors.ErrConfig,
			fmt.Sprintf("Printer '%s' already exists in %s", opts.Name, path),
			"Use --force to replace it")
	}

	var replace bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Printer '%s' already exists. Replace it?", opts.Name)).
				Value(&replace),
		),
	)
	if err := form.Run(); err != nil {
		return false, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Use --force to replace the profile")
	}
	return replace, nil
}

// testPrinter polls the printer once. In interactive mode a failure can be
// saved anyway.
func testPrinter(ctx context.Context, out io.Writer, opts ConfigInitOptions, p config.Printer) error {
	err := ui.Track(out, "Polling "+p.URL, func() error {
		_, err := pollPrinter(ctx, p)
		return err
	})
	if err == nil {
		return nil
	}

	fail := errors.WrapWithCode(err, errors.ErrConfig,
		fmt.Sprintf("Printer at %s did not answer: %s", p.URL, errors.ShortMessage(err)),
		"Check the URL and credentials, or pass --skip-test")
	if opts.NonInteractive {
		return fail
	}

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save the profile anyway? (the printer may just be off)").
				Value(&saveAnyway),
		),
	)
	if err := form.Run(); err != nil || !saveAnyway {
		return fail
	}
	return nil
}

// newBackend builds the backend named by the profile.
func newBackend(p config.Printer) (printer.Backend, error) {
	switch p.Backend {
	case config.BackendOctoprint:
		return printer.NewOctoprint(p.Options())
	case config.BackendPrusaLink:
		return printer.NewPrusaLink(p.Options())
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown printer backend '%s'", p.Backend),
			"Use octoprint or prusa-link")
	}
}

func pollPrinter(ctx context.Context, p config.Printer) (*printer.Reading, error) {
	b, err := newBackend(p)
	if err != nil {
		return nil, err
	}
	return b.Poll(ctx)
}

const (
	authToken  = "token"
	authDigest = "digest"
)

func runInitForm(opts *ConfigInitOptions) error {
	if opts.Backend == "" {
		opts.Backend = config.BackendPrusaLink
	}
	auth := authToken
	if opts.Login != "" {
		auth = authDigest
	}

	required := func(what string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", what)
			}
			return nil
		}
	}
	isOctoprint := func() bool { return opts.Backend == config.BackendOctoprint }

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Profile name").
				Description("Used with --profile in your bar config").
				Placeholder("mk4").
				Value(&opts.Name).
				Validate(func(s string) error {
					if err := required("profile name")(s); err != nil {
						return err
					}
					if strings.ContainsAny(s, " \t\n") {
						return fmt.Errorf("profile name cannot contain whitespace")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Backend").
				Options(
					huh.NewOption("PrusaLink", config.BackendPrusaLink),
					huh.NewOption("OctoPrint", config.BackendOctoprint),
				).
				Value(&opts.Backend),
			huh.NewInput().
				Title("Printer URL").
				Placeholder("http://printer.local").
				Value(&opts.URL).
				Validate(func(s string) error {
					if err := required("URL")(s); err != nil {
						return err
					}
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return fmt.Errorf("URL must start with http:// or https://")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Authentication").
				Options(
					huh.NewOption("API token", authToken),
					huh.NewOption("Login and password (digest)", authDigest),
				).
				Value(&auth),
		).WithHideFunc(isOctoprint),
		huh.NewGroup(
			huh.NewInput().
				Title("API key").
				Description("Write ${NAME} to read it from the environment").
				EchoMode(huh.EchoModePassword).
				Value(&opts.APIKey).
				Validate(required("API key")),
		).WithHideFunc(func() bool { return !isOctoprint() && auth == authDigest }),
		huh.NewGroup(
			huh.NewInput().
				Title("Login").
				Value(&opts.Login).
				Validate(required("login")),
			huh.NewInput().
				Title("Password").
				Description("Write ${NAME} to read it from the environment").
				EchoMode(huh.EchoModePassword).
				Value(&opts.Password).
				Validate(required("password")),
		).WithHideFunc(func() bool { return isOctoprint() || auth != authDigest }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Hide the remaining print time?").
				Value(&opts.HideRemainingTime),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}

	// Only the credentials of the chosen scheme are kept.
	if isOctoprint() || auth == authToken {
		opts.Login, opts.Password = "", ""
	} else {
		opts.APIKey = ""
	}
	return nil
}
