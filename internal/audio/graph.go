package audio

import (
	"errors"
	"sync"

	"github.com/gopxl/beep"
	"github.com/tartampluch/go-celebrate/internal/config"
)

// Graph is an audio-processing graph: a playback source routed through a
// frequency analyser to the output.
type Graph interface {
	// Play starts (or resumes) playback.
	Play() error
	FrequencyBinCount() int
	ByteFrequencyData(dst []byte)
	// Close releases the graph. Closing twice returns ErrGraphClosed.
	Close() error
}

// GraphFactory constructs a Graph.
type GraphFactory func() (Graph, error)

// ErrGraphClosed is returned by operations on a released graph.
var ErrGraphClosed = errors.New(config.ErrGraphClosed)

// trackGraph routes a looping track of a Player through an Analyser.
type trackGraph struct {
	player   *Player
	track    *Track
	analyser *Analyser

	mu     sync.Mutex
	closed bool
}

// NewTrackGraph decodes path, loops it, and inserts an analyser between the
// decoder and the mixer. The track is added paused; Play opens the speaker
// if needed and unpauses it.
func NewTrackGraph(p *Player, path string, cfg AnalyserConfig) (Graph, error) {
	g := &trackGraph{player: p}
	track, err := p.PlayFile(path, true, true, func(s beep.Streamer) beep.Streamer {
		g.analyser = NewAnalyser(s, cfg)
		return g.analyser
	})
	if err != nil {
		return nil, err
	}
	g.track = track
	return g, nil
}

// TrackGraphFactory binds NewTrackGraph to a player and a file.
func TrackGraphFactory(p *Player, path string, cfg AnalyserConfig) GraphFactory {
	return func() (Graph, error) {
		return NewTrackGraph(p, path, cfg)
	}
}

func (g *trackGraph) Play() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrGraphClosed
	}
	if err := g.player.Initialize(); err != nil {
		return err
	}
	g.track.SetPaused(false)
	return nil
}

func (g *trackGraph) FrequencyBinCount() int {
	return g.analyser.FrequencyBinCount()
}

func (g *trackGraph) ByteFrequencyData(dst []byte) {
	g.analyser.ByteFrequencyData(dst)
}

func (g *trackGraph) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return ErrGraphClosed
	}
	g.closed = true
	return g.track.Stop()
}
