package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/codenotes/pkg/core"
	"github.com/aretw0/codenotes/pkg/panel"
)

var (
	panelActive string
	panelFilter string
	panelHTML   bool
	panelStdin  bool
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Render the notes side panel",
	Long: `Render the side panel once, scoped to --active when given.
With --stdin, panel messages (one JSON object per line, e.g.
{"command":"delete","file":"/a.go","line":3}) are read and applied, and
the panel is repainted after each.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		host := newTerminalHost(strings.NewReader(""), out)
		host.focus(panelActive, 0)

		ctx := cmd.Context()
		svc, err := openService(ctx, host)
		if err != nil {
			return err
		}
		defer svc.Stop(ctx)

		var p *panel.Panel
		p = panel.New(svc, panel.RendererFunc(func(doc string, msg panel.RenderMessage) error {
			if panelHTML {
				_, err := fmt.Fprintln(out, doc)
				return err
			}
			_, err := fmt.Fprintln(out, renderText(panel.BuildView(frameOf(msg), p.Query())))
			return err
		}), slog.Default())

		p.SetFilter(panelFilter)
		if err := p.Attach(); err != nil {
			return err
		}
		defer p.Dispose()
		if err := p.Show(); err != nil {
			return err
		}

		if !panelStdin {
			return nil
		}
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := p.Receive(ctx, []byte(line)); err != nil {
				fmt.Fprintln(out, errorStyle.Render(err.Error()))
			}
		}
		return scanner.Err()
	},
}

// frameOf rebuilds the frame a render message was made from.
func frameOf(msg panel.RenderMessage) core.Frame {
	frame := core.Frame{Notes: msg.Notes}
	if msg.ActiveFile != nil {
		frame.ActiveFile = *msg.ActiveFile
	}
	return frame
}

// renderText draws a panel view for the terminal.
func renderText(v panel.View) string {
	var b strings.Builder

	title := "All notes"
	if v.ActiveFile != "" {
		title = v.ActiveFile
	}
	fmt.Fprintf(&b, "%s %s", activeStyle.Render(title), helpStyle.Render(fmt.Sprintf("%d of %d", v.Shown, v.Total)))
	if v.Query != "" {
		fmt.Fprintf(&b, " %s", helpStyle.Render("filter: "+v.Query))
	}

	if len(v.Groups) == 0 {
		b.WriteString("\n" + helpStyle.Render("No notes yet"))
	}
	for _, g := range v.Groups {
		if v.ActiveFile == "" {
			b.WriteString("\n" + fileStyle.Render(g.File))
		}
		if len(g.Notes) == 0 {
			empty := "No notes in this file"
			if v.Query != "" {
				empty = "No notes match the filter"
			}
			b.WriteString("\n" + helpStyle.Render(empty))
			continue
		}
		for _, n := range g.Notes {
			fmt.Fprintf(&b, "\n%s %s", lineStyle.Render(fmt.Sprintf("%5d", n.Line+1)), noteStyle.Render(n.Text))
		}
	}
	return panelBoxStyle.Render(b.String())
}

func init() {
	rootCmd.AddCommand(panelCmd)
	panelCmd.Flags().StringVar(&panelActive, "active", "", "File focused in the editor")
	panelCmd.Flags().StringVar(&panelFilter, "filter", "", "Only show notes containing this text")
	panelCmd.Flags().BoolVar(&panelHTML, "html", false, "Print the sanitized HTML document instead of text")
	panelCmd.Flags().BoolVar(&panelStdin, "stdin", false, "Apply panel messages read from standard input")
}

