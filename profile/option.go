//go:build pprof

package profile

import "github.com/pkg/profile"

// setting appends a pkg/profile option to a control.
type setting func(control) control

type control struct {
	opts []func(*profile.Profile)
}

func makeControl(settings ...setting) control {
	var c control

	for _, s := range settings {
		c = s(c)
	}

	return c
}

func withMode(m string) setting {
	return func(c control) control {
		if fn, ok := mode[m]; ok {
			c.opts = append(c.opts, fn)
		}

		return c
	}
}

func withPath(p string) setting {
	return func(c control) control {
		if p != "" {
			c.opts = append(c.opts, profile.ProfilePath(p))
		}

		return c
	}
}

func withQuiet(v bool) setting {
	return func(c control) control {
		if v {
			c.opts = append(c.opts, profile.Quiet)
		}

		return c
	}
}
