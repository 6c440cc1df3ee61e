package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/codenotes"
	lcadapter "github.com/aretw0/codenotes/pkg/adapters/lifecycle"
	"github.com/aretw0/codenotes/pkg/core"
	"github.com/aretw0/codenotes/pkg/panel"
)

var (
	watchActive string
	watchFilter string
	watchEvents []string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow note changes made by other processes",
	Long: `Keep the panel open and repaint it whenever the notes change on disk.
Every change event is printed as it happens. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		host := newTerminalHost(strings.NewReader(""), out)
		host.focus(watchActive, 0)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := openService(ctx, host, codenotes.WithWatch(true))
		if err != nil {
			return err
		}
		defer svc.Stop(cmd.Context())

		// Repaints go through a mailbox so a slow terminal never holds up the core.
		mailbox := panel.NewMailbox(ctx, core.ObserverFunc(func(frame core.Frame) {
			fmt.Fprintln(out, renderText(panel.BuildView(frame, watchFilter)))
		}))
		detach := svc.AttachPanel(mailbox)
		defer detach()

		stream, err := svc.Watch(ctx)
		if err != nil {
			return err
		}
		source := lcadapter.NewSource(stream, eventTypes(watchEvents)...)
		if err := source.Start(ctx); err != nil {
			return err
		}

		slog.Info("watching notes", "active", watchActive)
		for e := range source.Events() {
			fmt.Fprintln(out, eventStyle.Render(e.String()))
		}
		if dropped := mailbox.Dropped(); dropped > 0 {
			slog.Debug("frames superseded before display", "count", dropped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchActive, "active", "", "File focused in the editor")
	watchCmd.Flags().StringVar(&watchFilter, "filter", "", "Only show notes containing this text")
	watchCmd.Flags().StringSliceVar(&watchEvents, "events", nil, "Only print these event types (add, delete, focus, reload)")
}

func eventTypes(names []string) []core.EventType {
	types := make([]core.EventType, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			types = append(types, core.EventType(strings.ToUpper(name)))
		}
	}
	return types
}
