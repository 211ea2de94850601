package sequence

// Visible reports whether an editor should offer attr for this item, given
// the item's other live settings. Hidden settings still resolve normally.
func (it *Item) Visible(attr string, d Defaults) bool {
	if _, ok := it.Kind.Element(attr); !ok {
		return false
	}

	switch it.Kind {
	case Feature:
		bumper := it.liveString("ratingBumper", d)
		withBumper := bumper == "video" || bumper == "image"
		switch attr {
		case "ratingStyle":
			return withBumper && it.liveString("ratingStyleSelection", d) == "style"
		case "ratingStyleSelection":
			return withBumper
		}

	case Trivia, Slideshow:
		dirAttr, selectAttr := "triviaDir", "triviaSelect"
		if it.Kind == Slideshow {
			dirAttr, selectAttr = "slideshowDir", "slideshowSelect"
		}
		switch attr {
		case dirAttr:
			return it.liveString(selectAttr, d) == "Directory"
		case "musicDir":
			return it.liveString("music", d) == "dir"
		case "musicFile":
			return it.liveString("music", d) == "file"
		case "transitionDuration":
			t := it.liveString("transition", d)
			return t != "" && t != "none"
		}

	case Trailer:
		source := it.liveString("source", d)
		switch attr {
		case "file":
			return source == "file"
		case "dir":
			return source == "dir"
		case "count":
			return source == "dir" || source == "content"
		case "scrapers", "limitGenre":
			return source == "content"
		case "ratingMax":
			return it.liveString("ratingLimit", d) == "max"
		}

	case Video:
		vtype := it.rawString("vtype")
		random := it.liveBool("random", d)
		switch attr {
		case "source":
			return vtype != "file" && vtype != "dir" && !random
		case "dir":
			return vtype == "dir"
		case "count":
			return vtype == "dir" || (vtype != "file" && random)
		case "file":
			return vtype == "file"
		case "random":
			return vtype != "file"
		}

	case AudioFormat:
		method := it.liveString("method", d)
		fallback := it.liveString("fallback", d)
		switch attr {
		case "fallback":
			return method == "af.detect"
		case "file":
			return method == "af.file" || (method == "af.detect" && fallback == "af.file")
		case "format":
			return method == "af.format" || (method == "af.detect" && fallback == "af.format")
		}

	case Action:
		if attr == "eval" {
			return it.rawString("file") != ""
		}

	case Command:
		timed := attr == "nbLoops" || attr == "duration" || attr == "timeOfDay"
		if !timed {
			return true
		}
		switch it.rawString("condition") {
		case ConditionTimeOfDay:
			return attr == "timeOfDay"
		case ConditionDuration:
			return attr == "duration"
		case ConditionNbLoops:
			return attr == "nbLoops"
		default:
			return false
		}
	}

	return true
}
