package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"capturewatch/internal/ipc"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change live watchdog settings",
	}

	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))

	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the filter's current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Settings()
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, renderSettingsTable(resp.Settings))
				return nil
			})
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var videoCheck bool
	var audioCheck bool
	var activityCheck bool
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the filter's live settings",
		Long: "Replace the filter's live settings. Changes take effect on the " +
			"monitor's next tick and do not persist across daemon restarts; edit " +
			"the configuration file to make them permanent.",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			return ctx.withClient(func(client *ipc.Client) error {
				current, err := client.Settings()
				if err != nil {
					return err
				}

				settings := current.Settings
				if cmd.Flags().Changed("video") {
					settings.VideoTimestampCheck = videoCheck
				}
				if cmd.Flags().Changed("audio") {
					settings.AudioTimestampCheck = audioCheck
				}
				if cmd.Flags().Changed("activity") {
					settings.SourceActivityCheck = activityCheck
				}
				if cmd.Flags().Changed("grace") {
					if grace < time.Second || grace > 3600*time.Second {
						return fmt.Errorf("grace must be between 1s and 3600s, got %s", grace)
					}
					settings.InactivityGraceSeconds = int(grace / time.Second)
				}

				resp, err := client.ApplySettings(settings)
				if err != nil {
					return err
				}
				if !resp.Applied {
					return fmt.Errorf("settings were not applied")
				}
				fmt.Fprintln(stdout, "Settings applied")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&videoCheck, "video", true, "Enable the video timestamp check")
	cmd.Flags().BoolVar(&audioCheck, "audio", true, "Enable the audio timestamp check")
	cmd.Flags().BoolVar(&activityCheck, "activity", true, "Enable the source activity check")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "Inactivity grace period (whole seconds)")
	return cmd
}
