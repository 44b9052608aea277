package main

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/tauraamui/blurplayer/pkg/pipeline"
	"github.com/tauraamui/blurplayer/pkg/player"
	"github.com/urfave/cli"
)

func listDevices(_ *cli.Context) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Device", "Available", "Separable blur", "Detail"})
	for _, info := range player.Devices() {
		table.Append([]string{
			info.Name,
			strconv.FormatBool(info.Available),
			strconv.FormatBool(info.SeparableBlur),
			info.Detail,
		})
	}
	table.Render()
	fmt.Print(buf.String())
	return nil
}

func displayStats(stats pipeline.Stats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Ticks", "Frames", "Empty ticks", "Surface failures"})
	table.Append([]string{
		strconv.FormatUint(stats.Ticks, 10),
		strconv.FormatUint(stats.Frames, 10),
		strconv.FormatUint(stats.EmptyTicks, 10),
		strconv.FormatUint(stats.SurfaceFailures, 10),
	})
	table.Render()
	fmt.Print(buf.String())
}
