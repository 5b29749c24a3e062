package cli

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/config"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewChatCmd opens the terminal chat.
func NewChatCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask the tutor questions from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), *configPath)
		},
	}
}

func runChat(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	t, err := newTutor(ctx, cfg)
	if err != nil {
		return err
	}
	defer t.close()

	answers, err := t.answerService()
	if err != nil {
		return err
	}

	// fallback logging would tear the alt screen
	if os.Getenv("TUTOR_CHAT_LOG") != "" {
		f, err := tea.LogToFile(os.Getenv("TUTOR_CHAT_LOG"), "chat")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	_, err = tea.NewProgram(tui.New(ctx, answers), tea.WithAltScreen()).Run()
	return err
}
