// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, authCommand, speakersCommand, devicesCommand, journalCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// runCommand starts the bridge daemon.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Run the bridge daemon: poll playback state and serve speaker controls",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Run,
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Run the interactive OAuth flow in the browser",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Check whether saved tokens still work",
				Action: r.AuthStatus,
			},
		},
	}
}

// speakersCommand handles speaker inspection and control.
func speakersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "speakers",
		Aliases: []string{"speaker", "sp"},
		Usage:   "Inspect and control configured speakers",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show every configured speaker with its observed state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SpeakersList,
			},
			{
				Name:  "on",
				Usage: "Turn a speaker on (starts its playlist)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.SpeakerOn,
			},
			{
				Name:  "off",
				Usage: "Turn a speaker off (pauses its device)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.SpeakerOff,
			},
			{
				Name:  "volume",
				Usage: "Set a speaker's volume (0-100)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
					&cli.IntArg{Name: "percent"},
				},
				Action: r.SpeakerVolume,
			},
		},
	}
}

// devicesCommand lists the devices Spotify currently reports.
func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "devices",
		Aliases: []string{"dev"},
		Usage:   "List available Spotify playback devices",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Devices,
	}
}

// journalCommand inspects recorded state transitions.
func journalCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Show recorded speaker state transitions",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of transitions to show",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "speaker",
				Usage: "Only show transitions for this speaker name",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.JournalShow,
	}
}

// setupCommand initializes the config file and the journal database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and initialize the journal database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// tuiCommand returns the top-level TUI command for the speaker dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive speaker dashboard",
		Action:  r.TUI,
	}
}
