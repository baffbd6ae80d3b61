package pipeline

// Phases holds the per-phase toggles of one import run. Each toggle is
// independent; a phase whose prerequisites are missing is skipped, never
// errored.
type Phases struct {
	Ingest        bool
	Normalize     bool
	Proxy         bool
	Transcribe    bool
	Subtitles     bool
	DetectMarkers bool
	CutSegments   bool
	RoughCut      bool
	BindEditor    bool
}

// ImportPhases enables the standard ingest-through-segmenting run, leaving
// the on-demand finishing phases off.
func ImportPhases() Phases {
	return Phases{
		Ingest:        true,
		Normalize:     true,
		Proxy:         true,
		Transcribe:    true,
		Subtitles:     true,
		DetectMarkers: true,
		CutSegments:   true,
	}
}

// AllPhases enables everything, including rough cut and editor binding.
func AllPhases() Phases {
	p := ImportPhases()
	p.RoughCut = true
	p.BindEditor = true
	return p
}

// Job is an immutable import request. Construct it once per invocation.
type Job struct {
	// SourcePath is the card mount point or ingest pool directory.
	SourcePath string
	// Codeword optionally forces the project codeword, bypassing label and
	// session resolution.
	Codeword string
	// FromDevice marks SourcePath as a raw camera card rather than a
	// pre-copied pool, enabling camera profile detection and verified copies.
	FromDevice bool
	Phases     Phases
}
