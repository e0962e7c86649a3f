package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/woodb/rural/clipboard"
	"github.com/woodb/rural/config"
	"github.com/woodb/rural/storage"
)

// env carries everything the commands touch outside the process.
type env struct {
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
	connect   storage.Connector
	clipboard clipboard.Sink
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, &env{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		connect:   storage.ConnectS3,
		clipboard: clipboard.System{},
	}, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, e *env, args []string) int {
	cmd := newRootCmd(e)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			fmt.Fprintln(e.stderr, config.MissingMessage)
		} else {
			fmt.Fprintln(e.stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func newRootCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rural <filename>",
		Short: "Upload a file to S3 and copy a signed link to the clipboard",
		Long: `rural uploads a local file to the configured S3 bucket, makes it publicly
readable and copies a link valid for 24 hours to the clipboard.

Credentials and the default bucket are read from ~/.rural.
Run 'rural configure' to create it.

A file named like a subcommand (configure, upload, help, completion) is
taken as that command in the short form; use 'rural upload <name>' instead.`,
		Args:              cobra.MaximumNArgs(1),
		PersistentPreRunE: e.initAction,
		RunE:              e.rootAction,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	cmd.SetIn(e.stdin)
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)

	cmd.PersistentFlags().String("log-level", logrus.InfoLevel.String(), "logging level")
	cmd.Flags().Bool("configure", false, "run the configuration wizard before uploading")
	cmd.Flags().Bool("random-key", false, "store the file under a random name")

	cmd.AddCommand(newConfigureCmd(e), newUploadCmd(e))
	return cmd
}

func (e *env) initAction(cmd *cobra.Command, args []string) error {
	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return err
	}
	ll, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(ll)
	logrus.SetOutput(e.stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return nil
}

// rootAction keeps the original single-command form:
// `rural [--configure] <filename>`.
func (e *env) rootAction(cmd *cobra.Command, args []string) error {
	configure, err := cmd.Flags().GetBool("configure")
	if err != nil {
		return err
	}
	randomKey, err := cmd.Flags().GetBool("random-key")
	if err != nil {
		return err
	}

	if configure {
		if err = e.configure(); err != nil {
			return err
		}
		if len(args) == 0 {
			return nil
		}
	}

	if len(args) == 0 {
		if err = cmd.Usage(); err != nil {
			return err
		}
		return errors.New("a filename is required")
	}
	return e.upload(cmd.Context(), args[0], randomKey)
}

func (e *env) configPath() (string, error) {
	home, err := config.HomeDir(e.lookupEnv)
	if err != nil {
		return "", err
	}
	return config.Path(home), nil
}
