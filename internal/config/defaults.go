package config

const (
	defaultProjectsRoot     = "~/Footage/Projects"
	defaultIngestPool       = "~/Footage/Ingest"
	defaultLogDir           = "~/.local/share/dailies/logs"
	defaultSessionDB        = "~/.local/share/dailies/session.db"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultLoudnessTarget   = -16.0
	defaultLoudnessTruePeak = -1.5
	defaultLoudnessRange    = 11.0
	defaultTranscodeWorkers = 4
	defaultWhisperModel     = "small"
	defaultUVXBinary        = "uvx"
	defaultCUDAMode         = "auto"
	defaultTakePattern      = `\btake\s+(\d{1,3})\b`
	defaultRoughCutStyle    = "episode"
	defaultFrameRate        = 25.0
	defaultEditorURL        = "http://127.0.0.1:8899"
	defaultImportLimit      = 40
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsRoot: defaultProjectsRoot,
			IngestPool:   defaultIngestPool,
			LogDir:       defaultLogDir,
			SessionDB:    defaultSessionDB,
		},
		Transcode: Transcode{
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			LoudnessTarget:   defaultLoudnessTarget,
			LoudnessTruePeak: defaultLoudnessTruePeak,
			LoudnessRange:    defaultLoudnessRange,
			Workers:          defaultTranscodeWorkers,
		},
		Transcription: Transcription{
			Model:     defaultWhisperModel,
			UVXBinary: defaultUVXBinary,
			CUDA:      defaultCUDAMode,
		},
		Markers: Markers{
			Keywords:    []string{"marker", "cut here"},
			TakePattern: defaultTakePattern,
		},
		RoughCut: RoughCut{
			Style:     defaultRoughCutStyle,
			FrameRate: defaultFrameRate,
		},
		Editor: Editor{
			URL:         defaultEditorURL,
			ImportLimit: defaultImportLimit,
		},
		Watch: Watch{
			LabelPrefixes: []string{"A", "CARD"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Cameras: DefaultCameras(),
	}
}

// DefaultCameras returns the built-in camera profiles. Config files may
// append to or replace this set.
func DefaultCameras() []Camera {
	return []Camera{
		{
			ID:            "sony-fx",
			SignatureDirs: []string{"PRIVATE/M4ROOT"},
			ClipDirs:      []string{"PRIVATE/M4ROOT/CLIP"},
			ProxyWidth:    1280,
			ProxyHeight:   720,
			ProxyCodec:    "prores_proxy",
			FrameRate:     25,
		},
		{
			ID:            "dji-pocket",
			SignatureDirs: []string{"DCIM/DJI_001"},
			ClipDirs:      []string{"DCIM/DJI_001"},
			ProxyWidth:    1280,
			ProxyHeight:   720,
			ProxyCodec:    "h264",
			FrameRate:     25,
		},
		{
			ID:            "gopro",
			SignatureDirs: []string{"DCIM/100GOPRO"},
			ClipDirs:      []string{"DCIM/100GOPRO"},
			ProxyWidth:    1280,
			ProxyHeight:   720,
			ProxyCodec:    "h264",
			FrameRate:     25,
		},
	}
}

// PoolCamera is the profile assigned to clips from an already-copied ingest
// pool, where no card structure is left to identify the source device.
func PoolCamera() Camera {
	return Camera{
		ID:          "pool",
		ProxyWidth:  1280,
		ProxyHeight: 720,
		ProxyCodec:  "h264",
		FrameRate:   25,
	}
}
