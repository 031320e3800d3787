package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/render"
)

// checkFunc produces the display value of one check. A nil output with a nil
// error means there is nothing to show.
type checkFunc func(ctx context.Context, s *session) (*render.Output, error)

// runCheck is the only place deciding between output, silence and a
// reported error. Reported errors end the process with exit code 1.
func runCheck(cmd *cobra.Command, check checkFunc) error {
	s, err := newSession(cmd)
	if err != nil {
		// No renderer was chosen yet; report in the plain protocol.
		_ = render.I3Blocks{}.RenderError(cmd.OutOrStdout(), cmd.ErrOrStderr(), err)
		return errors.NewExitError(1)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out, err := check(ctx, s)
	switch {
	case err == nil:
		return s.renderer.Render(s.stdout, s.paint(out))
	case errors.IsSuppressed(err):
		s.log.Debug("nothing to show: %v", err)
		return nil
	default:
		s.log.Debug("check failed: %v", err)
		if rerr := s.renderer.RenderError(s.stdout, s.stderr, err); rerr != nil {
			return rerr
		}
		return errors.NewExitError(1)
	}
}
