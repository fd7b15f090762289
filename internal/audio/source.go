package audio

// Source supplies the most recent mono PCM samples for analysis.
type Source interface {
	Samples() []float32
	SampleRate() float64
	Close() error
}

// Playback is implemented by sources that play a track and can be paused.
type Playback interface {
	Resume()
	TogglePause() bool
}
