// Hotseat Truco for two players at one terminal. The engine hides the
// opponent's hand from each prompt unless --debug reveals both.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"truco-game/internal/database"
	"truco-game/internal/game"
	"truco-game/internal/protocol"
)

func main() {
	debug := flag.Bool("debug", false, "reveal both hands at every prompt")
	verbose := flag.Bool("verbose", false, "write engine logs to stderr")
	target := flag.Int("target", 30, "points needed to win the match")
	mazo := flag.String("mazo", "draw_off", "both-pass resolution: draw_off or redeal")
	seed := flag.Uint64("seed", 0, "fixed shuffle seed, 0 picks one")
	noDB := flag.Bool("no-db", false, "do not persist the result")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	if *verbose {
		logger.SetOutput(os.Stderr)
		logger.SetLevel(logrus.DebugLevel)
	}

	cfg := game.DefaultConfig()
	cfg.TargetScore = *target
	cfg.Seed = *seed
	switch *mazo {
	case "draw_off":
		cfg.MazoMode = game.MazoDrawOff
	case "redeal":
		cfg.MazoMode = game.MazoRedeal
	default:
		pterm.Error.Printfln("unknown mazo mode %q", *mazo)
		os.Exit(1)
	}

	pterm.DefaultHeader.WithFullWidth().Println("TRUCO")
	pterm.Info.Printfln("First to %d points. Good luck.", cfg.TargetScore)

	name0 := promptName("Player 1 name", "Player 1")
	name1 := promptName("Player 2 name", "Player 2")

	match, err := game.NewMatch(logger, cfg, name0, name1)
	if err != nil {
		pterm.Error.Printfln("could not start match: %v", err)
		os.Exit(1)
	}

	for !match.Finished() {
		playPrompt(match, *debug)
	}
	showResult(match)

	if !*noDB {
		persistResult(logger, match)
	}
}

func promptName(prompt, fallback string) string {
	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultValue(fallback).Show(prompt)
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	return name
}

// playPrompt renders the table for the acting player and submits their pick.
func playPrompt(match *game.Match, debug bool) {
	actingID := match.DebugView().Round.ActingID

	var view protocol.MatchView
	if debug {
		view = match.DebugView()
	} else {
		view, _ = match.View(actingID)
	}
	renderTable(view, actingID)

	actions := match.LegalActions(actingID)
	if len(actions) == 0 {
		return
	}
	options := make([]string, len(actions))
	for i, a := range actions {
		options[i] = a.String()
	}

	picked, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		Show(fmt.Sprintf("%s, your move", nameByID(view, actingID)))
	if err != nil {
		pterm.Error.Printfln("input aborted: %v", err)
		os.Exit(1)
	}

	action := actions[indexOf(options, picked)]
	if action.Type == game.ActionResign {
		sure, _ := pterm.DefaultInteractiveConfirm.Show("Resign the match?")
		if !sure {
			return
		}
	}

	if err := match.Submit(actingID, action); err != nil {
		pterm.Warning.Printfln("%v", err)
	}
}

func renderTable(v protocol.MatchView, actingID string) {
	data := pterm.TableData{{"Player", "Truco", "Envido", "Flor", "Total", ""}}
	for _, p := range v.Players {
		marker := ""
		if p.Mano {
			marker = "mano"
		}
		data = append(data, []string{
			p.Name,
			fmt.Sprint(p.Score.Truco),
			fmt.Sprint(p.Score.Envido),
			fmt.Sprint(p.Score.Flor),
			fmt.Sprint(p.Total),
			marker,
		})
	}
	pterm.DefaultSection.Printfln("Round %d", v.Round.Number)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Warning.Printfln("render failed: %v", err)
	}

	for i, t := range v.Round.Tricks {
		var parts []string
		for _, pc := range t.Cards {
			parts = append(parts, fmt.Sprintf("%s: %s", v.Players[pc.PlayerIndex].Name, pc.Card))
		}
		line := fmt.Sprintf("Trick %d  %s", i+1, strings.Join(parts, "  |  "))
		switch {
		case t.Parda:
			line += "  (parda)"
		case t.WinnerID != "":
			line += fmt.Sprintf("  -> %s", nameByID(v, t.WinnerID))
		}
		if t.FromDrawOff {
			line += "  [deck draw]"
		}
		pterm.Info.Println(line)
	}

	if pc := v.Round.PendingCall; pc != nil {
		pterm.Warning.Printfln("%s called %s", nameByID(v, pc.ProposerID), pc.Rung)
	}

	for _, p := range v.Players {
		if len(p.Hand) == 0 {
			continue
		}
		var cards []string
		for _, c := range p.Hand {
			cards = append(cards, c.String())
		}
		label := p.Name
		if p.ID == actingID {
			label += " (you)"
		}
		pterm.Println(pterm.FgLightCyan.Sprintf("%s: %s", label, strings.Join(cards, ", ")))
	}
}

func showResult(match *game.Match) {
	winner := match.Winner()
	if winner == nil {
		pterm.Error.Println("match ended without a winner")
		return
	}
	how := "on points"
	if match.Resigned() {
		how = "by resignation"
	}
	pterm.DefaultHeader.WithFullWidth().Printfln("%s wins %s", winner.Name, how)
	for _, p := range match.Players() {
		pterm.Info.Printfln("%s: %d points (truco %d, envido %d, flor %d)",
			p.Name, p.Score.Total(), p.Score.Truco, p.Score.Envido, p.Score.Flor)
	}
}

func persistResult(logger logrus.FieldLogger, match *game.Match) {
	db, err := database.New(logger)
	if err != nil {
		pterm.Warning.Printfln("result not saved: %v", err)
		return
	}
	defer db.Close()

	players := match.Players()
	result := &database.MatchResult{
		ID:       match.ID,
		Player0:  players[0].Name,
		Player1:  players[1].Name,
		Winner:   match.Winner().Name,
		Truco0:   players[0].Score.Truco,
		Envido0:  players[0].Score.Envido,
		Flor0:    players[0].Score.Flor,
		Truco1:   players[1].Score.Truco,
		Envido1:  players[1].Score.Envido,
		Flor1:    players[1].Score.Flor,
		Rounds:   match.RoundsPlayed(),
		Resigned: match.Resigned(),
	}
	if err := db.SaveResult(result); err != nil {
		pterm.Warning.Printfln("result not saved: %v", err)
		return
	}
	pterm.Success.Println("Result saved.")
}

func nameByID(v protocol.MatchView, id string) string {
	for _, p := range v.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func indexOf(options []string, picked string) int {
	for i, o := range options {
		if o == picked {
			return i
		}
	}
	return 0
}
