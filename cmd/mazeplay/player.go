package main

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/maze-runner/game"
	"github.com/beka-birhanu/maze-runner/maze"
	"github.com/gdamore/tcell/v2"
)

const cellWidth = 2

var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	agentStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	goalStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	noticeStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

type player struct {
	screen  tcell.Screen
	session *game.Session
	sound   *chime
	notice  string
	won     int
}

func newPlayer(screen tcell.Screen, session *game.Session, sound *chime) *player {
	return &player{
		screen:  screen,
		session: session,
		sound:   sound,
	}
}

func (p *player) run() {
	p.draw()
	for {
		switch ev := p.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if !p.handleKey(ev.Key(), ev.Rune()) {
				return
			}
		case *tcell.EventResize:
			p.screen.Sync()
		case nil:
			return
		}
		p.draw()
	}
}

// handleKey applies one key press and reports whether the game goes on.
func (p *player) handleKey(key tcell.Key, r rune) bool {
	p.notice = ""

	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		p.nextRound()
		return true
	}
	if key == tcell.KeyRune && r == 'q' {
		return false
	}

	d, ok := keyDirection(key, r)
	if !ok {
		return true
	}

	result, err := p.session.Move(d)
	switch {
	case errors.Is(err, game.ErrRoundComplete):
		p.notice = "round complete, press Enter for the next maze"
	case errors.Is(err, game.ErrSessionFinished):
		p.notice = "session finished, press Esc to quit"
	case err != nil:
		p.notice = err.Error()
	case result == maze.Blocked:
		p.sound.blocked()
	case result == maze.Arrived:
		p.won++
		p.sound.arrived()
	}
	return true
}

func (p *player) nextRound() {
	if err := p.session.NextRound(); err != nil {
		p.notice = err.Error()
	}
}

func keyDirection(key tcell.Key, r rune) (maze.Direction, bool) {
	switch key {
	case tcell.KeyUp:
		return maze.Up, true
	case tcell.KeyDown:
		return maze.Down, true
	case tcell.KeyLeft:
		return maze.Left, true
	case tcell.KeyRight:
		return maze.Right, true
	case tcell.KeyRune:
		d, err := maze.ParseDirection(string(r))
		return d, err == nil
	}
	return 0, false
}

func (p *player) draw() {
	p.screen.Clear()

	grid := p.session.Grid()
	goal, agent := grid.Goal(), grid.Agent()
	size := grid.Size()

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			pos := maze.Position{X: x, Y: y}
			switch {
			case pos == agent:
				p.put(x, y, '@', agentStyle)
			case pos == goal:
				p.put(x, y, '*', goalStyle)
			case grid.IsWall(pos):
				p.put(x, y, '█', wallStyle)
			}
		}
	}

	status := fmt.Sprintf("round %d/%d  moves %d  total %d  %s",
		p.session.Round(), p.session.Rounds(), p.session.Moves(), p.session.TotalMoves(), p.session.State())
	p.text(0, size+1, status, statusStyle)
	p.text(0, size+2, "WASD/arrows move  Enter next round  Esc quit", statusStyle)
	if p.notice != "" {
		p.text(0, size+3, p.notice, noticeStyle)
	}

	p.screen.Show()
}

// put fills one maze cell, which spans cellWidth terminal columns.
func (p *player) put(x, y int, r rune, style tcell.Style) {
	fill := r
	if r != '█' {
		fill = ' '
	}
	p.screen.SetContent(x*cellWidth, y, r, nil, style)
	for i := 1; i < cellWidth; i++ {
		p.screen.SetContent(x*cellWidth+i, y, fill, nil, style)
	}
}

func (p *player) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
