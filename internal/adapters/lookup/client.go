package lookup

import (
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

func newClient(userAgent string) *resty.Client {
	c := resty.New().
		SetTimeout(defaultTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	if userAgent != "" {
		c.SetHeader("User-Agent", userAgent)
	}

	return c
}
