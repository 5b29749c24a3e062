package cli

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/config"
	transport "github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/transport/http"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the tutor web service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logConfigSummary(cfg)

	finalPort := cmp.Or(portFlag, cfg.Server.Port, "8000")

	t, err := newTutor(ctx, cfg)
	if err != nil {
		return err
	}
	defer t.close()

	answers, err := t.answerService()
	if err != nil {
		return err
	}
	topics := t.topics()
	quizzes, err := t.quizGenerator(topics)
	if err != nil {
		return err
	}

	handler := transport.NewHandler(answers, quizzes, topics, cfg.Quiz.NumQuestions)
	if t.catalog != nil {
		handler.WithDocuments(t.catalog)
	}
	router := transport.NewRouter(handler, transport.NewWSHandler(answers, quizzes))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: cfg.WriteTimeout(),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("tutor service listening on :%s", finalPort)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		log.Printf("shutting down tutor service")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
