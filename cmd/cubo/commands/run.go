package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/autocube/cubo/pkg/chat"
	"github.com/autocube/cubo/pkg/cli"
)

// tickInterval is the fixed step of the animation clock. Nothing renders
// in the terminal session, but ticking keeps crossfades advancing so the
// avatars' weights are live for anything observing them.
const tickInterval = 50 * time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Interactive chat session with live avatar animation",
	Long: `Run an interactive chat session in the terminal.

Avatars are loaded from the configured asset source, then every message
you type goes to the model. Bracketed animation tokens in your messages
and the replies drive the avatars.

Session commands:
  /options   ask the model for three suggested replies
  /history   print the conversation so far
  /quit      end the session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runSession(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	transcript := cli.NewTranscript(cli.DefaultTheme)

	progress := func(received, total int64) {
		if verbose {
			fmt.Fprintf(os.Stderr, "\r%s", transcript.Progress("assets", received, total))
		}
	}
	eng, err := buildEngine(ctx, cfg, progress, logger)
	if err != nil {
		return err
	}
	defer eng.close()

	session, err := eng.newSession()
	if err != nil {
		return err
	}

	// Fixed-step animation clock, independent of chat round trips.
	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				eng.registry.Tick(tickInterval.Seconds())
			}
		}
	}()
	defer func() { stop(); <-tickDone }()

	fmt.Println(transcript.Help())
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(transcript.Prompt())
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			return nil
		case line == "/history":
			for _, turn := range session.History() {
				if turn.Role == chat.RoleSystem {
					continue
				}
				fmt.Println(transcript.Turn(turn.Role, turn.Content))
			}
		case line == "/options":
			options, err := session.GenerateReplyOptions(ctx)
			if err != nil {
				printChatError(transcript, err)
				continue
			}
			fmt.Println(transcript.Options(options))
		default:
			reply, err := session.SendMessage(ctx, line)
			if err != nil {
				printChatError(transcript, err)
				continue
			}
			fmt.Println(transcript.Turn(chat.RoleAssistant, reply))
		}
	}
}

func printChatError(transcript *cli.Transcript, err error) {
	var terr *chat.TransportError
	outOfCredits := errors.As(err, &terr) && terr.OutOfCredits()
	fmt.Println(transcript.Error(err, outOfCredits))
}
