package main

import (
	"fmt"
	"strings"

	"voltdesk/internal/api"
	"voltdesk/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newAskCmd sends one general chat question.
func newAskCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the electrical assistant one question",
		Example: `  voltdesk ask "3상 전력 공식 알려줘"
  voltdesk ask --raw what is a pull-up resistor`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			conv := session.NewConversation(a.client(), a.cfg.UI.Greeting)

			ticket, err := conv.Begin(strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.logger.Debug("sending chat message", zap.Int("history", len(ticket.History)))

			answer, callErr := conv.Call(cmd.Context(), ticket)
			conv.Complete(ticket, answer, callErr)
			if callErr != nil {
				return fmt.Errorf("%s%s", session.ErrorPrefix, api.ErrorDetail(callErr))
			}

			p.answer(answer, raw || !a.cfg.UI.Markdown)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the answer without markdown rendering")
	return cmd
}

// newDocCmd uploads a document and asks one question about it.
func newDocCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:     "doc [file] [question]",
		Short:   "Upload a PDF and ask a question about it",
		Example: `  voltdesk doc manual.pdf 정격 전압이 얼마야?`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			doc := session.NewDocSession(a.client())

			upload, err := doc.BeginUpload(args[0])
			if err != nil {
				return err
			}
			p.info("%s", doc.Status())
			resp, callErr := doc.CallUpload(cmd.Context(), upload)
			doc.CompleteUpload(upload, resp, callErr)
			if callErr != nil {
				return fmt.Errorf("%s%s", session.ErrorPrefix, api.ErrorDetail(callErr))
			}
			p.success("%s", doc.Status())
			a.logger.Debug("document session established", zap.String("session_id", doc.SessionID()))

			ticket, err := doc.Begin(strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("%s: %w", session.NoticeNeedQuestion, err)
			}
			answer, callErr := doc.Call(cmd.Context(), ticket)
			doc.Complete(ticket, answer, callErr)
			if callErr != nil {
				return fmt.Errorf("%s%s", session.ErrorPrefix, api.ErrorDetail(callErr))
			}

			p.answer(answer, raw || !a.cfg.UI.Markdown)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print the answer without markdown rendering")
	return cmd
}
