package main

import (
	"github.com/spf13/cobra"
	"github.com/woodb/rural/config"
)

func newConfigureCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Store AWS credentials and the default bucket in ~/.rural",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.configure()
		},
	}
}

func (e *env) configure() error {
	path, err := e.configPath()
	if err != nil {
		return err
	}
	_, err = config.Create(path, e.stdin, e.stdout)
	return err
}
