package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/woodb/rural/config"
	"github.com/woodb/rural/uploader"
)

func newUploadCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <filename>",
		Short: "Upload a file and copy its signed URL to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			randomKey, err := cmd.Flags().GetBool("random-key")
			if err != nil {
				return err
			}
			return e.upload(cmd.Context(), args[0], randomKey)
		},
	}
	cmd.Flags().Bool("random-key", false, "store the file under a random name")
	return cmd
}

func (e *env) upload(ctx context.Context, filename string, randomKey bool) error {
	path, err := e.configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	url, err := uploader.New(e.connect).Upload(ctx, cfg, filename, uploader.Options{RandomKey: randomKey})
	if err != nil {
		return err
	}

	// stdout always gets the link, the clipboard is best effort
	fmt.Fprintln(e.stdout, url)
	if err = e.clipboard.Copy(url); err != nil {
		logrus.Warn("could not copy URL to clipboard: ", err)
		return nil
	}
	logrus.Info("signed URL copied to clipboard")
	return nil
}
