package main

import (
	"github.com/smartbiz-gst/smartbiz/pkg/buildtime"
	"github.com/spf13/cobra"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(buildtime.VersionString())
		},
	}
}
