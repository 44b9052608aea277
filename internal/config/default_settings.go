package config

type defaultSettingKey uint

const (
	FPS          defaultSettingKey = 0x0
	DEVICE       defaultSettingKey = 0x1
	STREAMURL    defaultSettingKey = 0x2
	STREAMSOURCE defaultSettingKey = 0x3
	BLURRADIUS   defaultSettingKey = 0x4
	BLURBACKEND  defaultSettingKey = 0x5
	WINDOWTITLE  defaultSettingKey = 0x6
	WINDOWWIDTH  defaultSettingKey = 0x7
	WINDOWHEIGHT defaultSettingKey = 0x8
)

var defaultSettings = map[defaultSettingKey]interface{}{
	FPS:          20.0,
	DEVICE:       "software",
	STREAMURL:    "blurplayer-demo",
	STREAMSOURCE: "mock",
	BLURRADIUS:   6.0,
	BLURBACKEND:  "gpu_separable",
	WINDOWTITLE:  "blurplayer",
	WINDOWWIDTH:  1280,
	WINDOWHEIGHT: 720,
}
