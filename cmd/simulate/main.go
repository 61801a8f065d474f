// Command simulate resolves one battle between two rosters read from a YAML
// file and prints the result as JSON.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/sandai/src/domain/combat"
	"github.com/bryanwahyu/sandai/src/domain/leaderboard"
	"github.com/bryanwahyu/sandai/src/infra/logging"
)

type rosterFile struct {
	Attacker combat.Roster `yaml:"attacker"`
	Defender combat.Roster `yaml:"defender"`
}

type output struct {
	*combat.Result
	RatingDelta int `json:"rating_delta"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	rostersPath := fs.String("rosters", "", "YAML file with attacker and defender rosters")
	turnCap := fs.Int("turn-cap", combat.DefaultTurnCap, "maximum rounds before a draw")
	outPath := fs.String("out", "", "write the JSON result to this file instead of stdout")
	logLevel := fs.String("log-level", "warn", "engine log level")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rostersPath == "" {
		return errors.New("-rosters is required")
	}

	logger, err := logging.New(logging.Options{Level: *logLevel})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	raw, err := os.ReadFile(*rostersPath)
	if err != nil {
		return err
	}
	var rosters rosterFile
	if err := yaml.Unmarshal(raw, &rosters); err != nil {
		return fmt.Errorf("parse %s: %w", *rostersPath, err)
	}

	result, err := combat.Simulate(rosters.Attacker, rosters.Defender,
		combat.WithTurnCap(*turnCap),
		combat.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	logger.Info("battle resolved",
		zap.String("outcome", string(result.Outcome)),
		zap.Int("total_turns", result.TotalTurns),
	)

	out := output{
		Result:      result,
		RatingDelta: leaderboard.RatingDelta(result.TotalTurns, leaderboard.TeamPower(rosters.Attacker.Units), leaderboard.TeamPower(rosters.Defender.Units)),
	}
	w := stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
