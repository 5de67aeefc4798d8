package leak

type Config struct {
	CaptureSite bool // default: false; record file:line of each rc.New
	SkipFrames  int  // default: 0; extra frames to skip when CaptureSite is set
}

func NewConfig(captureSite bool, skipFrames int) Config {
	if skipFrames < 0 {
		skipFrames = 0
	}
	return Config{
		CaptureSite: captureSite,
		SkipFrames:  skipFrames,
	}
}
