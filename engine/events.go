package engine

import (
	"github.com/preshow-cli/preshow/key"
	"github.com/preshow-cli/preshow/log"
	"github.com/preshow-cli/preshow/playable"
	"github.com/preshow-cli/preshow/sequence"
	"github.com/spf13/cast"
)

// Resume modes of key.ActionOnResume.
const (
	ResumeNone = iota
	ResumeLastAction
	ResumeFile
)

// EventActions are the scripts fired by show events. A nil runner is off.
type EventActions struct {
	Pause  playable.Runner
	Resume playable.Runner
	// ResumeLast replays the last action item passed on resume.
	ResumeLast bool

	Abort         playable.Runner
	BeforeFeature playable.Runner
	Beginning     playable.Runner
	LastChapter   playable.Runner
	MiddleChapter playable.Runner
	AfterFeature  playable.Runner
}

// LoadEventActions reads the action switches and files from d and builds
// the runners with script.
func LoadEventActions(d sequence.Defaults, script func(path string) playable.Runner) EventActions {
	load := func(enabled, file string) playable.Runner {
		if !cast.ToBool(d.Get(enabled)) {
			return nil
		}

		path := cast.ToString(d.Get(file))
		if path == "" {
			log.Warnf("%s is on but %s is empty", enabled, file)
			return nil
		}
		return script(path)
	}

	actions := EventActions{
		Pause:         load(key.ActionOnPause, key.ActionOnPauseFile),
		Abort:         load(key.ActionOnAbort, key.ActionOnAbortFile),
		BeforeFeature: load(key.ActionBeforeFeature, key.ActionBeforeFeatureFile),
		Beginning:     load(key.ActionPreshowBeginning, key.ActionPreshowBeginningFile),
		LastChapter:   load(key.ActionLastChapter, key.ActionLastChapterFile),
		MiddleChapter: load(key.ActionMiddleChapter, key.ActionMiddleChapterFile),
		AfterFeature:  load(key.ActionAfterFeature, key.ActionAfterFeatureFile),
	}

	switch mode := cast.ToInt(d.Get(key.ActionOnResume)); mode {
	case ResumeNone:
	case ResumeLastAction:
		actions.ResumeLast = true
	case ResumeFile:
		if path := cast.ToString(d.Get(key.ActionOnResumeFile)); path != "" {
			actions.Resume = script(path)
		} else {
			log.Warnf("%s is %d but %s is empty", key.ActionOnResume, mode, key.ActionOnResumeFile)
		}
	default:
		log.Warnf("unknown %s mode %d", key.ActionOnResume, mode)
	}

	return actions
}
