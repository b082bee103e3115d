// Command mazeplay plays maze sessions in the terminal.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/beka-birhanu/maze-runner/game"
	"github.com/beka-birhanu/maze-runner/maze"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

var (
	rooms      int
	rounds     int
	extraWalls int
	seed       int64
	mute       bool

	rootCmd = &cobra.Command{
		Use:   "mazeplay",
		Short: "Walk from the agent to the goal through generated mazes",
		Long: `mazeplay generates a maze for every round of a session and lets you
walk the agent (@) to the goal (*) with WASD or the arrow keys.
Enter starts the next round once the goal is reached, Esc quits.`,
		Args: cobra.NoArgs,
		RunE: play,
	}
)

func init() {
	rootCmd.Flags().IntVarP(&rooms, "rooms", "r", game.DefaultRooms, "Rooms per side of every maze")
	rootCmd.Flags().IntVarP(&rounds, "rounds", "n", game.DefaultRounds, "Rounds in the session")
	rootCmd.Flags().IntVar(&extraWalls, "extra-walls", maze.DefaultExtraWalls, "Walls opened after carving, 0 for a perfect maze")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "Seed for reproducible mazes, random when 0")
	rootCmd.Flags().BoolVar(&mute, "mute", false, "Do not play a chime when a round is won")
}

func play(cmd *cobra.Command, _ []string) error {
	cfg := game.Config{
		Rooms:      rooms,
		Rounds:     rounds,
		ExtraWalls: extraWalls,
	}
	if seed != 0 {
		cfg.Rand = rand.New(rand.NewSource(seed))
	}

	session, err := game.NewSession(cfg)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var sound *chime
	if !mute {
		// Non-fatal, the game runs without sound
		sound, _ = newChime()
	}

	p := newPlayer(screen, session, sound)
	p.run()

	fmt.Fprintf(cmd.OutOrStdout(), "rounds won: %d/%d, total moves: %d\n", p.won, session.Rounds(), session.TotalMoves())
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
