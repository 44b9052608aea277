package configdef

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/dealancer/validate.v2"
)

type Stream struct {
	URL    string `json:"url" validate:"empty=false"`
	Source string `json:"source" validate:"one_of=opencv,mock"`
}

type Blur struct {
	Radius  float64 `json:"radius" validate:"gte=0 & lte=50"`
	Backend string  `json:"backend" validate:"one_of=composited,gpu_separable,direct_draw"`
}

type Window struct {
	Title    string `json:"title"`
	Width    int    `json:"width" validate:"gte=1"`
	Height   int    `json:"height" validate:"gte=1"`
	Headless bool   `json:"headless"`
}

type Values struct {
	Debug  bool    `json:"debug"`
	FPS    float64 `json:"fps" validate:"gte=1 & lte=240"`
	Device string  `json:"device" validate:"one_of=cuda,software,none"`
	Stream Stream  `json:"stream"`
	Blur   Blur    `json:"blur"`
	Window Window  `json:"window"`
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if !v.Window.Headless && len(strings.TrimSpace(v.Window.Title)) == 0 {
		return fmt.Errorf(validationErrorHeader, errors.New("window title must be set unless headless"))
	}
	return nil
}

func (v *Values) RunValidate() error {
	return validate.Validate(v)
}
