package altctl

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Config holds the persistent flags shared by every command.
type Config struct {
	Server  string
	JSON    bool
	Timeout time.Duration
	NoColor bool
}

// DefaultServer is used when neither --server nor ALTD_SERVER is set.
const DefaultServer = "http://127.0.0.1:8080"

// BuildRootCmd constructs the altctl command tree bound to cfg.
func BuildRootCmd(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "altctl",
		Short:         "Client for the altd captioning daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.Server, "server", cfg.Server, "altd base URL (defaults ALTD_SERVER or "+DefaultServer+")")
	root.PersistentFlags().BoolVar(&cfg.JSON, "json", cfg.JSON, "Print raw JSON responses")
	root.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "HTTP timeout per request")
	root.PersistentFlags().BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable coloured output")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if cfg.NoColor {
			color.NoColor = true
		}
	}
	client := func() *Client { return NewClient(cfg.Server, cfg.Timeout) }

	modelsCmd := &cobra.Command{Use: "models", Short: "List available models", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		models, err := client().Models(cmd.Context())
		if err != nil {
			return err
		}
		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), models)
		}
		printModels(cmd.OutOrStdout(), models)
		return nil
	}}

	statusCmd := &cobra.Command{Use: "status [model]", Short: "Show daemon or model status", Args: cobra.MaximumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		c := client()
		if len(args) == 1 {
			st, err := c.ModelStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cfg.JSON {
				return printJSON(cmd.OutOrStdout(), st)
			}
			printModelStatus(cmd.OutOrStdout(), st)
			return nil
		}
		st, err := c.Status(cmd.Context())
		if err != nil {
			return err
		}
		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), st)
		}
		printStatus(cmd.OutOrStdout(), st)
		return nil
	}}

	var model string
	describeCmd := &cobra.Command{Use: "describe <image>...", Short: "Generate alt text for images", Example: "  altctl describe photo.jpg\n  altctl describe --model git a.png b.webp", Args: cobra.MinimumNArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		c := client()
		for _, p := range args {
			d, err := c.Describe(cmd.Context(), p, model)
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			if cfg.JSON {
				if err := printJSON(cmd.OutOrStdout(), d); err != nil {
					return err
				}
				continue
			}
			printDescribe(cmd.OutOrStdout(), p, d)
		}
		return nil
	}}
	describeCmd.Flags().StringVarP(&model, "model", "m", "", "Model id (daemon default when empty)")

	var wait bool
	loadCmd := &cobra.Command{Use: "load <model>", Short: "Load a model in the background", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		c := client()
		lr, err := c.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !wait {
			if cfg.JSON {
				return printJSON(cmd.OutOrStdout(), lr)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s loading %s\n", lr.OpID, bold(lr.Model))
			return nil
		}
		st, err := c.WaitLoaded(cmd.Context(), args[0], 500*time.Millisecond)
		if err != nil {
			return err
		}
		if cfg.JSON {
			return printJSON(cmd.OutOrStdout(), st)
		}
		printModelStatus(cmd.OutOrStdout(), st)
		return nil
	}}
	loadCmd.Flags().BoolVarP(&wait, "wait", "w", false, "Wait until the model is loaded")

	unloadCmd := &cobra.Command{Use: "unload <model>", Short: "Drain and unload a model", Args: cobra.ExactArgs(1), RunE: func(cmd *cobra.Command, args []string) error {
		if err := client().Unload(cmd.Context(), args[0]); err != nil {
			return err
		}
		if !cfg.JSON {
			fmt.Fprintf(cmd.OutOrStdout(), "unloaded %s\n", bold(args[0]))
		}
		return nil
	}}

	root.AddCommand(modelsCmd, statusCmd, describeCmd, loadCmd, unloadCmd)
	return root
}

// MainWithArgs is a testable variant of Main that accepts args explicitly.
// It returns an exit code (0 for success, non-zero on error).
func MainWithArgs(ctx context.Context, args []string) int {
	cfg := &Config{Server: envStr("ALTD_SERVER", DefaultServer), Timeout: 5 * time.Minute}
	root := BuildRootCmd(cfg)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("error: ")+err.Error())
		return 1
	}
	return 0
}

// Main returns an exit code (0 for success, non-zero on error) for use by cmd/altctl.
func Main() int { return MainWithArgs(context.Background(), os.Args[1:]) }

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
