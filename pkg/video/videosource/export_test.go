package videosource

var ValidateURL = validateURL

func OverloadOpenCapture(overload func(addr string) (Capture, error)) func() {
	ref := openCapture
	openCapture = func(addr string) (capture, error) { return overload(addr) }
	return func() { openCapture = ref }
}

type Capture = capture
