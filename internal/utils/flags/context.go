// Package flags provides helpers for binding shared command-line flags to Cobra commands.
package flags

import "github.com/spf13/cobra"

const (
	// DefaultRootFlagName exposes the shared documentation root flag name.
	DefaultRootFlagName = "root"
	// DefaultRootFlagUsage describes the shared documentation root flag purpose.
	DefaultRootFlagUsage = "Source roots to scan (repeatable)"
	// RemoteFlagName exposes the shared remote flag name.
	RemoteFlagName = "remote"
	// RemoteFlagUsage describes the shared remote flag purpose.
	RemoteFlagUsage = "Git remote used to infer the repository"
	// RepositoryFlagName exposes the shared repository flag name.
	RepositoryFlagName = "repository"
	// RepositoryFlagUsage describes the shared repository flag purpose.
	RepositoryFlagUsage = "GitHub repository in owner/name form"
)

// RepositoryFlagDefinition captures configuration for the repository context flag.
type RepositoryFlagDefinition struct {
	Name    string
	Usage   string
	Enabled bool
}

// RepositoryFlagValues stores repository context flag values.
type RepositoryFlagValues struct {
	Repository string
}

// BindRepositoryFlag attaches the repository context flag to the provided command.
func BindRepositoryFlag(command *cobra.Command, defaults RepositoryFlagValues, definition RepositoryFlagDefinition) *RepositoryFlagValues {
	values := defaults
	if command == nil {
		return &values
	}
	if !definition.Enabled {
		return &values
	}

	flagName := definition.Name
	if len(flagName) == 0 {
		flagName = RepositoryFlagName
	}
	flagUsage := definition.Usage
	if len(flagUsage) == 0 {
		flagUsage = RepositoryFlagUsage
	}

	command.PersistentFlags().StringVar(&values.Repository, flagName, defaults.Repository, flagUsage)
	return &values
}

// RootFlagDefinition captures configuration for documentation root flags.
type RootFlagDefinition struct {
	Name       string
	Usage      string
	Enabled    bool
	Persistent bool
}

// RootFlagValues stores documentation root flag values.
type RootFlagValues struct {
	Roots []string
}

// BindRootFlags attaches standard documentation root flags to the provided command.

func BindRootFlags(command *cobra.Command, defaults RootFlagValues, definition RootFlagDefinition) *RootFlagValues {
	values := RootFlagValues{Roots: append([]string{}, defaults.Roots...)}
	if command == nil {
		return &values
	}
	if !definition.Enabled {
		return &values
	}
	flagName := definition.Name
	if len(flagName) == 0 {
		flagName = DefaultRootFlagName
	}
	flagUsage := definition.Usage
	if len(flagUsage) == 0 {
		flagUsage = DefaultRootFlagUsage
	}

	targetSet := command.PersistentFlags()
	if !definition.Persistent {
		targetSet = command.Flags()
	}

	if targetSet.Lookup(flagName) == nil {
		targetSet.StringSliceVar(&values.Roots, flagName, values.Roots, flagUsage)
	}

	if definition.Persistent {
		if command.Flags().Lookup(flagName) == nil {
			if persistentFlag := targetSet.Lookup(flagName); persistentFlag != nil {
				command.Flags().AddFlag(persistentFlag)
			}
		}
	}
	return &values
}

// EnsureRemoteFlag guarantees the shared remote flag is available on the command.
func EnsureRemoteFlag(command *cobra.Command, defaultValue string, usage string) {
	if command == nil {
		return
	}

	persistentSet := command.PersistentFlags()
	if persistentSet.Lookup(RemoteFlagName) == nil {
		persistentSet.String(RemoteFlagName, defaultValue, usage)
	}

	if command.Flags().Lookup(RemoteFlagName) == nil {
		if remoteFlag := persistentSet.Lookup(RemoteFlagName); remoteFlag != nil {
			command.Flags().AddFlag(remoteFlag)
		}
	}
}
