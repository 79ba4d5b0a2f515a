package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in treant's version.
	VersionMajor = 0
	// VersionMinor is the minor number in treant's version.
	VersionMinor = 1
	// VersionPatch is the patch number in treant's version.
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of treant",
		Long:  `All software has versions. This is treant's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("treant v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
