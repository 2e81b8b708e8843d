// Package chatcmder is a terminal client for the chat relay.
package chatcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"lingo-backend/internal/chat"
	"lingo-backend/internal/config"
	"lingo-backend/internal/conversation"
	"lingo-backend/internal/logger"
	"lingo-backend/internal/models"
)

const chatLongDesc string = `Chat with a running relay from the terminal.

Each line read from stdin is submitted as a user turn. The whole
conversation is sent to the relay's /api/chat endpoint.

By default the model reply is rendered for the terminal with glamour.
Use --format html to print the same HTML fragment the web page shows.

Examples:
  chat
  chat --relay http://192.168.1.42:3000
  chat --format html
  echo "I has a apple." | chat`

const chatShortDesc string = "Chat with the relay from the terminal"

const (
	formatTerminal = "terminal"
	formatHTML     = "html"
)

type chatCommander struct {
	relayURL string
	timeout  time.Duration
	debug    bool
	format   string
	style    string
}

func NewChatCmd() *cobra.Command {
	cfg := config.LoadClient()
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:          "chat",
		Short:        chatShortDesc,
		Long:         chatLongDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&cmder.relayURL, "relay", "r", cfg.RelayURL, "Base URL of the relay server")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", 2*time.Minute, "Timeout for each relay call")
	cmd.Flags().BoolVar(&cmder.debug, "debug", cfg.Debug, "Enable debug logging")
	cmd.Flags().StringVar(&cmder.format, "format", formatTerminal, "Reply format: terminal or html")
	cmd.Flags().StringVar(&cmder.style, "style", "", "glamour style for terminal output (default: auto)")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var md *glamour.TermRenderer
	terminal := false
	switch c.format {
	case formatHTML:
	case formatTerminal, "":
		terminal = true
		md = newMarkdownRenderer(c.style)
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", c.format, formatTerminal, formatHTML)
	}

	log := logger.NewLogger(c.debug)
	defer log.Sync()

	transport := chat.NewHTTPTransport(c.relayURL, &http.Client{Timeout: c.timeout})
	surface := &terminalSurface{out: out, printMarkup: !terminal}
	controller := chat.NewController(conversation.NewStore(), transport, surface, log)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		result, err := controller.Submit(ctx, scanner.Text())
		if err != nil && !errors.Is(err, chat.ErrEmptyInput) {
			return err
		}
		if terminal && result.State == chat.StateRendering {
			fmt.Fprint(out, renderMarkdown(md, lastModelText(controller.Conversation())))
		}
	}
	fmt.Fprintln(out)

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("could not read input: %w", err)
	}
	return nil
}

// newMarkdownRenderer returns nil when glamour cannot be set up, in which
// case replies are printed as plain text.
func newMarkdownRenderer(style string) *glamour.TermRenderer {
	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(80))
	if err != nil {
		return nil
	}
	return r
}

func renderMarkdown(r *glamour.TermRenderer, content string) string {
	if r == nil {
		return content + "\n"
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

func lastModelText(conv models.Conversation) string {
	for i := len(conv) - 1; i >= 0; i-- {
		if conv[i].Role == models.RoleModel {
			return conv[i].Text
		}
	}
	return ""
}

// terminalSurface prints each element as it is finalised. The user's own
// line is already on screen, so it is not echoed. Markup is printed only in
// html format; otherwise the reply is rendered from the conversation.
type terminalSurface struct {
	out         io.Writer
	printMarkup bool
}

func (s *terminalSurface) ShowUserMessage(string) {}

func (s *terminalSurface) ShowPlaceholder(text string) chat.Placeholder {
	fmt.Fprintln(s.out, text)
	return &terminalPlaceholder{out: s.out, printMarkup: s.printMarkup}
}

type terminalPlaceholder struct {
	out         io.Writer
	printMarkup bool
}

func (p *terminalPlaceholder) SetMarkup(markup string) {
	if p.printMarkup {
		fmt.Fprintln(p.out, markup)
	}
}

func (p *terminalPlaceholder) SetText(text string) { fmt.Fprintln(p.out, text) }
