package cli

import (
	"context"
	"log"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/config"
	"github.com/spf13/cobra"
)

// NewIngestCmd indexes a directory of PDF and text files.
func NewIngestCmd(configPath *string) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "ingest <dir>",
		Short: "Embed and index the PDF and text files in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), *configPath, args[0], topic)
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "topic stored on every indexed page")
	return cmd
}

func runIngest(ctx context.Context, configPath, dir, topic string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logConfigSummary(cfg)

	t, err := newTutor(ctx, cfg)
	if err != nil {
		return err
	}
	defer t.close()

	stats, err := t.pipeline(topic).IngestDir(ctx, dir)
	if err != nil {
		return err
	}
	if err := t.topics().Invalidate(ctx); err != nil {
		log.Printf("invalidate topic cache: %v", err)
	}
	log.Printf("ingest done: %d document(s), %d page(s), %d skipped", stats.Documents, stats.Pages, len(stats.Skipped))
	return nil
}
