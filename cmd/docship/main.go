package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/docship"
	"github.com/bft-labs/docship/internal/cliconfig"
	"github.com/bft-labs/docship/pkg/log"
)

const longHelp = `Sign documents from an inbox and ship them to a service or an outbox.

Each file is recognized as a JSON or TOML envelope, checked against the
accepted formats and the freshness window, signed with your certificate and
sent. Files that fail any step are reported as skipped.

Configure via $HOME/.docship/config.toml, DOCSHIP_* environment variables or
flags, in increasing order of precedence.`

var exampleUsage = strings.TrimSpace(`
  docship send --inbox-dir ./inbox --cert-file cert.pem --key-file key.pem
  docship watch --config ./docship.toml --outbox-dir ./outbox
  docship thing get TheDress CoolBoots --things-dir ./things
`)

// errSkipped marks a send run in which at least one file was skipped.
var errSkipped = errors.New("some files were skipped")

// exitSkipped is the process status when files were skipped.
const exitSkipped = 2

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	verbose bool
}

func main() {
	c := &cli{cfg: cliconfig.DefaultConfig()}
	root := c.rootCommand()

	if err := root.Execute(); err != nil {
		if errors.Is(err, errSkipped) {
			os.Exit(exitSkipped)
		}
		logger := cliconfig.Logger()
		logger.Error().Err(err).Msg("docship")
		os.Exit(1)
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "docship",
		Short:         "Sign and ship documents",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.docship/config.toml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log per-file outcomes")

	flags.StringVar(&c.cfg.InboxDir, "inbox-dir", c.cfg.InboxDir, "directory to read documents from")
	flags.StringVar(&c.cfg.OutboxDir, "outbox-dir", c.cfg.OutboxDir, "write signed documents here instead of uploading")
	flags.StringVar(&c.cfg.ServiceURL, "service-url", c.cfg.ServiceURL, "base service URL")
	flags.StringVar(&c.cfg.AuthKey, "auth-key", c.cfg.AuthKey, "API key for authentication")
	flags.StringVar(&c.cfg.CertFile, "cert-file", c.cfg.CertFile, "PEM certificate used for signing")
	flags.StringVar(&c.cfg.KeyFile, "key-file", c.cfg.KeyFile, "PEM private key used for signing")

	flags.StringSliceVar(&c.cfg.AcceptedFormats, "accepted-formats", c.cfg.AcceptedFormats, "accepted document formats")
	flags.IntVar(&c.cfg.MaxAgeMonths, "max-age-months", c.cfg.MaxAgeMonths, "documents older than this many months are skipped")
	flags.IntVar(&c.cfg.Workers, "workers", c.cfg.Workers, "files processed concurrently")
	flags.DurationVar(&c.cfg.HTTPTimeout, "timeout", c.cfg.HTTPTimeout, "HTTP timeout")
	flags.Float64Var(&c.cfg.SendRate, "send-rate", c.cfg.SendRate, "maximum uploads per second (0 for no limit)")

	flags.StringVar(&c.cfg.ThingsDir, "things-dir", c.cfg.ThingsDir, "resolve things from <dir>/<id>.toml")
	flags.StringVar(&c.cfg.ThingsURL, "things-url", c.cfg.ThingsURL, "thing service URL (defaults to service-url)")
	flags.DurationVar(&c.cfg.CacheTTL, "cache-ttl", c.cfg.CacheTTL, "expire cached things after this long (0 keeps them)")

	root.AddCommand(c.sendCommand(), c.watchCommand(), c.thingCommand())
	return root
}

// load applies file and environment configuration beneath explicitly set flags.
func (c *cli) load(cmd *cobra.Command) error {
	cliconfig.SetVerbose(c.verbose)

	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return err
	}
	return nil
}

func (c *cli) logConfig() {
	logCfg := c.cfg
	if len(logCfg.AuthKey) > 0 {
		logCfg.AuthKey = "*****"
	}
	logger := cliconfig.Logger()
	logger.Debug().Interface("config", logCfg).Msg("configuration")
}

func (c *cli) shipper() (*docship.Shipper, error) {
	c.logConfig()
	return docship.New(docship.Config{
		InboxDir:        c.cfg.InboxDir,
		OutboxDir:       c.cfg.OutboxDir,
		ServiceURL:      c.cfg.ServiceURL,
		AuthKey:         c.cfg.AuthKey,
		CertFile:        c.cfg.CertFile,
		KeyFile:         c.cfg.KeyFile,
		AcceptedFormats: c.cfg.AcceptedFormats,
		MaxAgeMonths:    c.cfg.MaxAgeMonths,
		Workers:         c.cfg.Workers,
		HTTPTimeout:     c.cfg.HTTPTimeout,
		SendRate:        c.cfg.SendRate,
		ThingsDir:       c.cfg.ThingsDir,
		ThingsURL:       c.cfg.ThingsURL,
		CacheTTL:        c.cfg.CacheTTL,
		Debounce:        c.cfg.Debounce,
	}, docship.WithLogger(log.NewZerologAdapterWithLogger(cliconfig.Logger())))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func (c *cli) sendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Sign and ship every document in the inbox once",
		Long:  "Sign and ship every document in the inbox once. Exits with status 2 when any file was skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			if err := c.cfg.ValidateShipping(); err != nil {
				return err
			}
			s, err := c.shipper()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			result, err := s.SendOnce(ctx)
			if err != nil {
				return err
			}
			return report(cmd, result)
		},
	}
}

func (c *cli) watchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Ship the inbox and keep shipping new documents until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			if err := c.cfg.ValidateShipping(); err != nil {
				return err
			}
			s, err := c.shipper()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			if c.cfg.Once {
				result, err := s.SendOnce(ctx)
				if err != nil {
					return err
				}
				return report(cmd, result)
			}

			err = s.Watch(ctx, func(result docship.Result) {
				_ = report(cmd, result)
			})
			if err != nil {
				return err
			}
			logger := cliconfig.Logger()
			logger.Info().Msg("stopped")
			return nil
		},
	}
	cmd.Flags().DurationVar(&c.cfg.Debounce, "debounce", c.cfg.Debounce, "quiet period after inbox changes before shipping")
	cmd.Flags().BoolVar(&c.cfg.Once, "once", c.cfg.Once, "ship the current inbox and exit")
	return cmd
}

// report prints skipped files and returns errSkipped when there are any.
func report(cmd *cobra.Command, result docship.Result) error {
	out := cmd.OutOrStdout()
	for _, o := range result.Outcomes {
		if o.Sent() {
			continue
		}
		fmt.Fprintf(out, "skipped\t%s\t%s\t%v\n", o.File.Name, o.Stage, o.Err)
	}
	fmt.Fprintf(out, "sent %d, skipped %d\n", result.SentCount(), len(result.Skipped))
	if len(result.Skipped) > 0 {
		return errSkipped
	}
	return nil
}

func (c *cli) thingCommand() *cobra.Command {
	thing := &cobra.Command{
		Use:   "thing",
		Short: "Look up things",
	}
	thing.AddCommand(&cobra.Command{
		Use:   "get <id>...",
		Short: "Resolve things by id through the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.load(cmd); err != nil {
				return err
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			s, err := c.shipper()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			out := cmd.OutOrStdout()
			for _, id := range args {
				t, found, err := s.Thing(ctx, id)
				switch {
				case err != nil:
					fmt.Fprintf(out, "%s\terror\t%v\n", id, err)
				case !found:
					fmt.Fprintf(out, "%s\tnot found\n", id)
				default:
					fmt.Fprintf(out, "%s\t%s\n", t.ID, t.Name)
				}
			}
			fmt.Fprintf(out, "cached %d\n", s.CachedThings())
			return nil
		},
	})
	return thing
}
