package main

import (
	"time"

	"github.com/schollz/progressbar/v3"
)

type Bars struct {
	Render *progressbar.ProgressBar
	Encode *progressbar.ProgressBar
}

func NewBars(totalRender, totalEncode int) *Bars {
	theme := progressbar.Theme{
		Saucer:        "=",
		SaucerHead:    ">",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	}
	render := progressbar.NewOptions(totalRender,
		progressbar.OptionSetTheme(theme),
		progressbar.OptionSetDescription("[render] frames"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	encode := progressbar.NewOptions(totalEncode,
		progressbar.OptionSetTheme(theme),
		progressbar.OptionSetDescription("[encode] gif"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	return &Bars{Render: render, Encode: encode}
}

func (b *Bars) IncRender() { _ = b.Render.Add(1) }
func (b *Bars) IncEncode() { _ = b.Encode.Add(1) }

func (b *Bars) Done() {
	_ = b.Render.Finish()
	_ = b.Encode.Finish()
}
