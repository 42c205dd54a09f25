package command

import (
	"context"
	"feiji/internal/core/domain"
	"fmt"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"time"

	"github.com/rs/zerolog/log"
)

// Debug reports runtime statistics of the bot process.
type Debug struct {
	started time.Time
	command string
}

func NewDebug(command string) *Debug {
	return &Debug{started: time.Now(), command: command}
}

func (d *Debug) GetCommand() string {
	return d.command
}

const kb = 1024
const debugTemplate = "up %s | mem %d KB | heap %d KB | stack %d KB | goroutines %d | %s %s-%s"
const metricCount = 3

func (d *Debug) Run(_ context.Context, _ string) *domain.Future {
	data := make([]metrics.Sample, metricCount)
	data[0] = metrics.Sample{Name: "/memory/classes/heap/objects:bytes"}
	data[1] = metrics.Sample{Name: "/memory/classes/heap/stacks:bytes"}
	data[2] = metrics.Sample{Name: "/memory/classes/total:bytes"}

	metrics.Read(data)

	for _, sample := range data {
		log.Debug().Str("name", sample.Name).Uint64("value", sample.Value.Uint64()).Msg("runtime metric")
	}

	goos, goarch := runtime.GOOS, runtime.GOARCH
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	return domain.Resolved(fmt.Sprintf(
		debugTemplate,
		time.Since(d.started).Truncate(time.Second),
		data[2].Value.Uint64()/kb,
		data[0].Value.Uint64()/kb,
		data[1].Value.Uint64()/kb,
		runtime.NumGoroutine(),
		runtime.Version(), goos, goarch,
	))
}
