package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deimosfr/i3-status-info/internal/config"
	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/logger"
	"github.com/deimosfr/i3-status-info/internal/metrics"
	"github.com/deimosfr/i3-status-info/internal/render"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// Global flags
var (
	outputFlag string
	configFlag string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "i3-status-info",
	Short: "Status blocks for i3blocks and i3status-rust",
	Long: `Print one status value (CPU, memory, disks, load, reachability or 3D printer
jobs) in the format your status bar expects.

Examples:
  i3-status-info cpu --display average
  i3-status-info --output i3status-rust mem -d used-percentage
  i3-status-info prusa-link --profile mk4`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&outputFlag, "output", "",
		"output format: "+strings.Join(render.Formats, ", ")+" (default from config, else auto)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"config file (default ~/"+config.GlobalConfigDir+"/"+config.GlobalConfigFile+")")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "print debug logs on stderr")
	rootCmd.SetFlagErrorFunc(flagError)

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return render.Formats, cobra.ShellCompDirectiveNoFileComp
	})
}

// session is what every check needs besides its own flags.
type session struct {
	cfg      *config.Config
	renderer render.Renderer
	stdout   io.Writer
	stderr   io.Writer
	log      logger.Logger
	colors   map[threshold.Severity]render.Color
}

// newSession loads the config and picks the renderer. The output flag wins
// over the config file.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}

	logger.SetDebug(debugFlag || cfg.Debug)
	logger.SetOutput(cmd.ErrOrStderr())
	log := logger.NewEnvLogger("[" + cmd.Name() + "]")
	if path != "" {
		log.Debug("loaded config from %s", path)
	}

	renderer, err := render.New(outputFormat(cfg))
	if err != nil {
		return nil, err
	}

	colors, err := cfg.ColorOverrides()
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		renderer: renderer,
		stdout:   cmd.OutOrStdout(),
		stderr:   cmd.ErrOrStderr(),
		log:      log,
		colors:   colors,
	}, nil
}

// paint swaps a state colour for its configured override. i3status-rust
// blocks keep their state for the bar theme.
func (s *session) paint(out *render.Output) *render.Output {
	if out == nil || len(s.colors) == 0 {
		return out
	}
	if _, ok := s.renderer.(render.I3StatusRust); ok {
		return out
	}
	if severity, ok := out.Color.Severity(); ok {
		if c, ok := s.colors[severity]; ok {
			out.Color = c
		}
	}
	return out
}

// outputFormat is the --output flag, else the config value.
func outputFormat(cfg *config.Config) string {
	if outputFlag != "" {
		return outputFlag
	}
	return cfg.Output
}

// flagError reports a flag parsing error in the status bar protocol, so an
// i3status-rust block shows it instead of going blank.
func flagError(cmd *cobra.Command, err error) error {
	ferr := errors.New(errors.ErrConfig, err.Error(),
		fmt.Sprintf("Run '%s --help' for the available flags.", cmd.CommandPath()))

	var renderer render.Renderer = render.I3Blocks{}
	if cfg, _, cerr := config.LoadOrDefault(configFlag); cerr == nil {
		if r, rerr := render.New(outputFormat(cfg)); rerr == nil {
			renderer = r
		}
	}
	_ = renderer.RenderError(cmd.OutOrStdout(), cmd.ErrOrStderr(), ferr)
	return errors.NewExitError(1)
}

func (s *session) debugReading(r metrics.Reading) {
	s.log.Debug("%s reading: %+v", r.Kind(), r)
}

// Execute runs the root command and exits with the check's status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}
	if code, ok := errors.GetExitCode(err); ok {
		os.Exit(code)
	}

	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			fmt.Fprintf(os.Stderr, "Unknown check '%s'. Run 'i3-status-info --help' for the list.\n", name)
			os.Exit(1)
		}
	}
	fmt.Fprint(os.Stderr, err.Error())
	if !strings.HasSuffix(err.Error(), "\n") {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(1)
}

// isUnknownCommandError reports cobra usage errors.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of cobra's
// `unknown command "foo" for "i3-status-info"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
