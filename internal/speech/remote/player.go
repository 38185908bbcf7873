package remote

import (
	"context"
	"fmt"
	"runtime"

	"github.com/oukeidos/kozh/internal/speech"
)

// Player plays a WAV file.
type Player interface {
	Play(ctx context.Context, path string) (speech.Playback, error)
}

// ProcessPlayer hands the file to the first audio program it finds.
type ProcessPlayer struct {
	cmd  speech.Commander
	goos string
}

func NewProcessPlayer(cmd speech.Commander) *ProcessPlayer {
	return &ProcessPlayer{cmd: cmd, goos: runtime.GOOS}
}

type playerCommand struct {
	name string
	args func(path string) []string
}

func (p *ProcessPlayer) commands() []playerCommand {
	if p.goos == "windows" {
		return []playerCommand{{
			name: "powershell",
			args: func(path string) []string {
				return []string{"-NoProfile", "-Command",
					fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", path)}
			},
		}}
	}
	return []playerCommand{
		{name: "afplay", args: func(path string) []string { return []string{path} }},
		{name: "aplay", args: func(path string) []string { return []string{"-q", path} }},
		{name: "ffplay", args: func(path string) []string {
			return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}
		}},
	}
}

func (p *ProcessPlayer) Play(ctx context.Context, path string) (speech.Playback, error) {
	for _, c := range p.commands() {
		bin, err := p.cmd.LookPath(c.name)
		if err != nil {
			continue
		}
		return p.cmd.Start(ctx, bin, c.args(path)...)
	}
	return nil, fmt.Errorf("no audio player found (install afplay, aplay or ffplay)")
}
