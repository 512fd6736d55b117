package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"cassandra/internal/config"
	"cassandra/internal/server/bootstrap"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// CLI carries the flag registry shared by every subcommand.
type CLI struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	// interactive is false when prompts must not be shown.
	interactive bool
}

// NewRootCommand creates the root cobra command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&CLI{v: viper.New(), out: os.Stdout, errOut: os.Stderr, interactive: isTTY()})
}

func newRootCommand(cli *CLI) *cobra.Command {
	root := &cobra.Command{
		Use:   "cassandra",
		Short: "Generate PowerPoint decks from a topic",
		Long: banner() + `

Cassandra plans slide titles for a topic, writes paragraph or bullet content
for each slide with an OpenAI-compatible model, and assembles a .pptx deck.
Without an API key every step falls back to built-in content.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ~/.cassandra/config.yaml)")
	flags.String("provider", "", "LLM provider: groq, cerebras, openai or mock")
	flags.String("model", "", "LLM model name")
	flags.String("base-url", "", "OpenAI-compatible base URL")
	flags.String("api-key", "", "LLM API key")
	flags.String("output-dir", "", "directory for generated decks")
	flags.String("data-dir", "", "directory for templates")
	flags.String("template", "", "path to a .pptx template")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")
	flags.Bool("no-color", false, "disable coloured output")
	_ = cli.v.BindPFlags(flags)

	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if cli.v.GetBool("no-color") {
			disableColor()
		}
	}

	root.AddCommand(
		newServeCommand(cli),
		newPlanCommand(cli),
		newPreviewCommand(cli),
		newGenerateCommand(cli),
		newRefineCommand(cli),
		newTemplatesCommand(cli),
	)
	return root
}

// bindFlags makes a subcommand's local flags visible through the registry.
func (c *CLI) bindFlags(flags *pflag.FlagSet) {
	_ = c.v.BindPFlags(flags)
}

func (c *CLI) overrides() config.Overrides {
	str := func(key string) *string {
		if !c.v.IsSet(key) {
			return nil
		}
		value := c.v.GetString(key)
		return &value
	}
	return config.Overrides{
		Provider:     str("provider"),
		Model:        str("model"),
		BaseURL:      str("base-url"),
		APIKey:       str("api-key"),
		Port:         str("port"),
		DataDir:      str("data-dir"),
		OutputDir:    str("output-dir"),
		TemplatePath: str("template"),
		LogLevel:     str("log-level"),
		LogFormat:    str("log-format"),
	}
}

// loadConfig resolves the configuration. Outside serve, info logs are noise
// next to the command output, so the level drops to warn unless chosen.
func (c *CLI) loadConfig(quiet bool) (config.Config, config.Metadata, error) {
	opts := []config.Option{config.WithOverrides(c.overrides())}
	if path := c.v.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}
	cfg, meta, err := config.Load(opts...)
	if err != nil {
		return config.Config{}, config.Metadata{}, fmt.Errorf("load config: %w", err)
	}
	if quiet && meta.Source("observability.logging.level") == config.SourceDefault {
		cfg.Observability.Logging.Level = "warn"
	}
	return cfg, meta, nil
}

// container builds the pipeline and returns a cleanup that flushes telemetry.
func (c *CLI) container(ctx context.Context, quiet bool) (*bootstrap.Container, func(), error) {
	cfg, meta, err := c.loadConfig(quiet)
	if err != nil {
		return nil, nil, err
	}
	built, err := bootstrap.BuildContainer(ctx, cfg, meta, c.errOut)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = built.Shutdown(context.WithoutCancel(ctx))
	}
	return built, cleanup, nil
}
